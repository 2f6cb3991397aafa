package language

import "strings"

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 bibliographic alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms as reported by Whisper (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese", "mandarin"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch", "flemish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"cs", "ces", "cze", "Czech", []string{"czech"}},
	{"hu", "hun", "", "Hungarian", []string{"hungarian"}},
	{"el", "ell", "gre", "Greek", []string{"greek"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"he", "heb", "", "Hebrew", []string{"hebrew"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}},
	{"uk", "ukr", "", "Ukrainian", []string{"ukrainian"}},
	{"bg", "bul", "", "Bulgarian", []string{"bulgarian"}},
	{"ro", "ron", "rum", "Romanian", []string{"romanian"}},
	{"sk", "slk", "slo", "Slovak", []string{"slovak"}},
	{"sl", "slv", "", "Slovenian", []string{"slovenian"}},
	{"sr", "srp", "", "Serbian", []string{"serbian"}},
	{"hr", "hrv", "", "Croatian", []string{"croatian"}},
	{"bs", "bos", "", "Bosnian", []string{"bosnian"}},
	{"sq", "sqi", "alb", "Albanian", []string{"albanian"}},
	{"mk", "mkd", "mac", "Macedonian", []string{"macedonian"}},
	{"lt", "lit", "", "Lithuanian", []string{"lithuanian"}},
	{"lv", "lav", "", "Latvian", []string{"latvian"}},
	{"et", "est", "", "Estonian", []string{"estonian"}},
	{"mt", "mlt", "", "Maltese", []string{"maltese"}},
	{"is", "isl", "ice", "Icelandic", []string{"icelandic"}},
	{"ga", "gle", "", "Irish", []string{"irish"}},
	{"cy", "cym", "wel", "Welsh", []string{"welsh"}},
	{"eu", "eus", "baq", "Basque", []string{"basque"}},
	{"ca", "cat", "", "Catalan", []string{"catalan"}},
	{"gl", "glg", "", "Galician", []string{"galician"}},
	{"fa", "fas", "per", "Persian", []string{"persian", "farsi"}},
	{"ur", "urd", "", "Urdu", []string{"urdu"}},
	{"bn", "ben", "", "Bengali", []string{"bengali"}},
	{"gu", "guj", "", "Gujarati", []string{"gujarati"}},
	{"pa", "pan", "", "Punjabi", []string{"punjabi"}},
	{"ta", "tam", "", "Tamil", []string{"tamil"}},
	{"te", "tel", "", "Telugu", []string{"telugu"}},
	{"kn", "kan", "", "Kannada", []string{"kannada"}},
	{"ml", "mal", "", "Malayalam", []string{"malayalam"}},
	{"mr", "mar", "", "Marathi", []string{"marathi"}},
	{"ne", "nep", "", "Nepali", []string{"nepali"}},
	{"si", "sin", "", "Sinhalese", []string{"sinhala", "sinhalese"}},
	{"my", "mya", "bur", "Burmese", []string{"burmese", "myanmar"}},
	{"km", "khm", "", "Khmer", []string{"khmer"}},
	{"lo", "lao", "", "Lao", []string{"lao"}},
	{"bo", "bod", "tib", "Tibetan", []string{"tibetan"}},
	{"mn", "mon", "", "Mongolian", []string{"mongolian"}},
	{"kk", "kaz", "", "Kazakh", []string{"kazakh"}},
	{"uz", "uzb", "", "Uzbek", []string{"uzbek"}},
	{"ky", "kir", "", "Kyrgyz", []string{"kyrgyz"}},
	{"tg", "tgk", "", "Tajik", []string{"tajik"}},
	{"tk", "tuk", "", "Turkmen", []string{"turkmen"}},
	{"az", "aze", "", "Azerbaijani", []string{"azerbaijani"}},
	{"hy", "hye", "arm", "Armenian", []string{"armenian"}},
	{"ka", "kat", "geo", "Georgian", []string{"georgian"}},
	{"am", "amh", "", "Amharic", []string{"amharic"}},
	{"sw", "swa", "", "Swahili", []string{"swahili"}},
	{"yo", "yor", "", "Yoruba", []string{"yoruba"}},
	{"ig", "ibo", "", "Igbo", []string{"igbo"}},
	{"ha", "hau", "", "Hausa", []string{"hausa"}},
	{"so", "som", "", "Somali", []string{"somali"}},
	{"af", "afr", "", "Afrikaans", []string{"afrikaans"}},
	{"zu", "zul", "", "Zulu", []string{"zulu"}},
	{"xh", "xho", "", "Xhosa", []string{"xhosa"}},
	{"ms", "msa", "may", "Malay", []string{"malay"}},
	{"id", "ind", "", "Indonesian", []string{"indonesian"}},
	{"tl", "tgl", "", "Tagalog", []string{"tagalog", "filipino"}},
	{"jv", "jav", "", "Javanese", []string{"javanese"}},
	{"su", "sun", "", "Sundanese", []string{"sundanese"}},
	{"eo", "epo", "", "Esperanto", []string{"esperanto"}},
	{"la", "lat", "", "Latin", []string{"latin"}},
}

// Reserved ISO 639-2 codes that carry meaning beyond a concrete language.
const (
	// Undetermined marks a track whose language could not be established.
	Undetermined = "und"
	// NoLinguisticContent marks a track with no speech (music, effects, silence).
	NoLinguisticContent = "zxx"
)

// undefinedSynonyms are raw tag values treated as "no language set".
var undefinedSynonyms = map[string]bool{
	"":             true,
	"und":          true,
	"unknown":      true,
	"undefined":    true,
	"undetermined": true,
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Normalize canonicalizes a raw language identifier into the stable code
// space used throughout the tool. It is a total function: empty strings and
// undefined synonyms become "und", "zxx" passes through, recognized 3-letter
// codes collapse to their 2-letter equivalents, and anything unrecognized
// passes through unchanged so operators can still see the original tag.
func Normalize(raw string) string {
	code := strings.ToLower(strings.TrimSpace(raw))
	if undefinedSynonyms[code] {
		return Undetermined
	}
	if code == NoLinguisticContent {
		return NoLinguisticContent
	}
	if e, ok := byCode3[code]; ok {
		return e.code2
	}
	return code
}

// FromWhisperName maps a language name or code as reported by Whisper
// ("french", "nl") to a normalized code. Dutch is special-cased through its
// legacy 3-letter form first, matching long-standing tagging behavior.
func FromWhisperName(name string) string {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "dutch" || trimmed == "nl" {
		return Normalize("dut")
	}
	if e := lookup(trimmed); e != nil {
		return Normalize(e.code2)
	}
	return Normalize(trimmed)
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if strings.EqualFold(strings.TrimSpace(code), NoLinguisticContent) {
		return "No Linguistic Content"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsTagged reports whether a stream language tag names a concrete language
// (anything other than empty, an undefined synonym, or whitespace).
func IsTagged(tag string) bool {
	code := strings.ToLower(strings.TrimSpace(tag))
	return !undefinedSynonyms[code]
}

// ExtractFromTags extracts the language from stream metadata tags.
// Checks common tag keys: language, LANGUAGE, Language, language_ietf, lang, LANG.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"}
	for _, key := range keys {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}
