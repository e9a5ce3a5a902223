// Package operators carries hard-coded operator tables that compensate for
// gaps in the source dataset: URL-safe slugs and English names are not part
// of the GTFS agency file.
package operators

// Slugs maps URL slugs to operator identifiers, matching GTFS agency_id.
var Slugs = map[string]string{
	"rail":           "2",
	"egged":          "3",
	"egged_tavura":   "4",
	"dan":            "5",
	"unbs":           "6",
	"ntt":            "7",
	"gbtours":        "8",
	"eilot":          "10",
	"nativ_express":  "14",
	"metropoline":    "15",
	"superbus":       "16",
	"kavim":          "18",
	"carmelit":       "20",
	"citypass":       "21",
	"galim":          "23",
	"golan":          "24",
	"afikim":         "25",
	"metronit":       "30",
	"dan_south":      "31",
	"dan_beersheba":  "32",
	"tnufa":          "34",
	"bietshemesh":    "35",
	"extra":          "37",
	"extra_jlm":      "38",
}

// EnglishNames translates operator identifiers to English display names,
// which are missing from the official translation table.
var EnglishNames = map[string]string{
	"2":  "Israel Railways",
	"3":  "Egged",
	"4":  "Egged Taavura",
	"5":  "Dan",
	"6":  "Nazareth UNBS",
	"7":  "Nazareth Transport & Tourism",
	"8":  "GB Tours",
	"10": "Eilot Regional Council",
	"14": "Nativ Express",
	"15": "Metropoline",
	"16": "Superbus",
	"18": "Kavim",
	"20": "Carmelit",
	"21": "Citypass",
	"23": "Galim",
	"24": "Golan Regional Council",
	"25": "Afikim",
	"30": "Metronit (Dan North)",
	"31": "Dan South",
	"32": "Dan Beersheba",
	"34": "Tnufa",
	"35": "Beit Shemesh Express",
	"37": "Extra",
	"38": "Extra Jerusalem",
}

var slugsByRef = func() map[string]string {
	byRef := map[string]string{}
	for slug, ref := range Slugs {
		byRef[ref] = slug
	}
	return byRef
}()

// OperatorRefForSlug resolves a URL slug to an operator identifier.
func OperatorRefForSlug(slug string) (string, bool) {
	ref, ok := Slugs[slug]
	return ref, ok
}

func SlugForOperatorRef(ref string) (string, bool) {
	slug, ok := slugsByRef[ref]
	return slug, ok
}

// EnglishName returns the English display name for an operator, or the
// empty string when none is known.
func EnglishName(ref string) string {
	return EnglishNames[ref]
}
