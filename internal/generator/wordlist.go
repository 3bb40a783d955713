package generator

// wordlist is a subset of the EFF long wordlist used for passphrases when
// the caller does not supply their own.
var wordlist = []string{
	"abacus", "abdomen", "abide", "ablaze", "able", "abnormal", "aboard",
	"abrasive", "absorb", "abstract", "abundant", "abuse", "academy",
	"acclaim", "acorn", "acquire", "across", "actress", "adapt", "adding",
	"admiral", "admire", "admit", "adopt", "adorable", "advance", "advice",
	"aerial", "afar", "affair", "affirm", "afire", "afraid", "after",
	"against", "agenda", "agent", "agile", "aging", "agree", "ahead",
	"aircraft", "aisle", "alarm", "album", "alert", "alibi", "alien",
	"aligned", "alive", "alley", "allow", "alloy", "almost", "alone",
	"alpine", "already", "also", "altitude", "alumni", "always", "amazing",
	"amber", "amble", "ambush", "amount", "amuse", "anchor", "ancient",
	"android", "angel", "anger", "angle", "angry", "animal", "ankle",
	"announce", "annual", "another", "answer", "anthem", "antique",
	"antler", "anxiety", "anxious", "apache", "apart", "apex", "aphid",
	"apologize", "apostle", "appeal", "appear", "apple", "apply", "approve",
	"april", "apron", "aptitude", "aquarium", "arbitrary", "arcade",
	"archer", "arctic", "arena", "argue", "arise", "armchair", "armed",
	"army", "aroma", "around", "arrange", "arrest", "arrival", "arrive",
	"arrow", "artwork", "ascend", "ascent", "aspect", "aspire", "asset",
	"assign", "assist", "assume", "assure", "asthma", "asylum", "athlete",
	"atlas", "atom", "atrium", "attach", "attack", "attain", "attempt",
	"attend", "attic", "attorney", "attract", "auction", "audio", "august",
	"aunt", "author", "auto", "autumn", "avatar", "avenge", "average",
	"aviation", "avid", "avoid", "awake", "award", "aware", "away",
	"awesome", "awful", "awkward", "axis", "babble", "baby", "bachelor",
	"bacon", "badge", "badly", "bagel", "baggy", "baked", "bakery",
	"balance", "balcony", "ball", "ballet", "balloon", "ballot", "bamboo",
	"banana", "banish", "banjo", "banner", "baptism", "barbecue", "bargain",
	"barrel", "barrier", "baseball", "basic", "basin", "basket", "batch",
	"bathroom", "battery", "battle", "bauble", "beach", "beaming", "bean",
	"bearded", "bearing", "beast", "beating", "beauty", "beaver", "became",
	"because", "become", "bedding", "bedroom", "bedtime", "beehive",
	"beer", "before", "began", "beginner", "behalf", "behave", "behind",
	"beige", "being", "belief", "believe", "bell", "belly", "belong",
	"below", "belt", "bench", "benefit", "berry", "best", "betray",
	"better", "between", "beverage", "beyond", "bicycle", "bigger",
	"biggest", "biking", "bikini", "billion", "bind", "bingo", "biology",
}
