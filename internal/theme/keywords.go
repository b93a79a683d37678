package theme

// order is the fixed theme iteration order for keyword matching.
// JazzClub precedes ClubStage so "Jazz Club" is not taken by "club".
var order = []Theme{
	WeddingParty,
	JazzClub,
	Coffeehouse,
	BarGig,
	ClubStage,
	CorporateEvent,
	FestivalStage,
	RehearsalRoom,
	GenericMusic,
}

// typeThemes maps the editor's explicit gig type tag to a theme
var typeThemes = map[string]Theme{
	"wedding":      WeddingParty,
	"club_show":    ClubStage,
	"corporate":    CorporateEvent,
	"bar_gig":      BarGig,
	"coffee_house": Coffeehouse,
	"festival":     FestivalStage,
	"rehearsal":    RehearsalRoom,
}

// Keywords are lower case. GenericMusic has none and is never matched.

var venueKeywords = map[Theme][]string{
	WeddingParty:   {"wedding", "ballroom", "banquet", "chapel", "manor", "estate", "vineyard", "winery", "garden", "event hall", "reception"},
	JazzClub:       {"jazz", "blue note", "supper club", "lounge"},
	Coffeehouse:    {"cafe", "café", "coffee", "espresso", "roastery", "tea house", "bakery"},
	BarGig:         {"bar", "pub", "tavern", "saloon", "brewery", "taproom", "beer"},
	ClubStage:      {"club", "theater", "theatre", "arena", "music hall", "concert hall", "auditorium"},
	CorporateEvent: {"hotel", "conference", "convention", "center", "centre", "corporate", "office", "expo"},
	FestivalStage:  {"festival", "fest", "park", "fairground", "open air"},
	RehearsalRoom:  {"rehearsal", "studio", "practice", "jam room"},
}

var venueKeywordsHe = map[Theme][]string{
	WeddingParty:   {"חתונה", "אולם", "גן אירועים", "אחוזה"},
	JazzClub:       {"ג'אז", "גאז"},
	Coffeehouse:    {"קפה"},
	BarGig:         {"בר", "פאב", "מבשלה"},
	ClubStage:      {"מועדון", "היכל", "תיאטרון"},
	CorporateEvent: {"מלון", "כנס", "ועידה"},
	FestivalStage:  {"פסטיבל", "פארק"},
	RehearsalRoom:  {"חזרות", "אולפן", "סטודיו"},
}

var contentKeywords = map[Theme][]string{
	WeddingParty:   {"wedding", "bride", "groom", "reception", "engagement", "bar mitzvah", "bat mitzvah", "anniversary"},
	JazzClub:       {"jazz", "swing", "bebop", "big band", "quartet", "trio"},
	Coffeehouse:    {"acoustic", "unplugged", "coffee", "cafe", "open mic", "singer-songwriter"},
	BarGig:         {"bar", "pub", "happy hour", "cover band", "tavern"},
	ClubStage:      {"club", "dj", "rave", "techno", "album release", "tour"},
	CorporateEvent: {"corporate", "company", "conference", "gala", "product launch", "summit", "offsite", "holiday party"},
	FestivalStage:  {"festival", "fest", "open air", "summer stage"},
	RehearsalRoom:  {"rehearsal", "practice", "jam session", "run-through"},
}

var contentKeywordsHe = map[Theme][]string{
	WeddingParty:   {"חתונה", "חינה", "בר מצווה", "בת מצווה", "אירוסין"},
	JazzClub:       {"ג'אז", "סווינג"},
	Coffeehouse:    {"אקוסטי", "קפה"},
	BarGig:         {"בר", "פאב"},
	ClubStage:      {"מועדון", "מסיבה"},
	CorporateEvent: {"כנס", "השקה", "ערב גיבוש"},
	FestivalStage:  {"פסטיבל"},
	RehearsalRoom:  {"חזרה", "חזרות"},
}
