package language

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Undefined synonyms
		{"", "und"},
		{"und", "und"},
		{"unknown", "und"},
		{"undefined", "und"},
		{"undetermined", "und"},
		// No linguistic content passes through
		{"zxx", "zxx"},
		// 3-letter codes convert
		{"eng", "en"},
		{"ENG", "en"},
		{"spa", "es"},
		{"fra", "fr"},
		{"fre", "fr"},
		{"deu", "de"},
		{"ger", "de"},
		{"nld", "nl"},
		{"dut", "nl"},
		{"ces", "cs"},
		{"cze", "cs"},
		{"slk", "sk"},
		{"slo", "sk"},
		{"ron", "ro"},
		{"rum", "ro"},
		{"jpn", "ja"},
		{"chi", "zh"},
		{"zho", "zh"},
		// 2-letter codes pass through
		{"en", "en"},
		{"FR", "fr"},
		// Unknown values pass through lowercased
		{"xyz", "xyz"},
		{"qq", "qq"},
	}
	for _, tt := range tests {
		name := tt.input
		if name == "" {
			name = "(empty)"
		}
		t.Run(name, func(t *testing.T) {
			result := Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "eng", "fre", "dut", "zxx", "und", "unknown", "en", "xyz", "ENG"}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestFromWhisperName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"french", "fr"},
		{"English", "en"},
		{"GERMAN", "de"},
		// Dutch maps through the legacy bibliographic code
		{"dutch", "nl"},
		{"nl", "nl"},
		{"fr", "fr"},
		{"", "und"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := FromWhisperName(tt.input)
			if result != tt.expected {
				t.Errorf("FromWhisperName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"fr", "French"},
		{"fre", "French"},
		{"en", "English"},
		{"zxx", "No Linguistic Content"},
		{"", "Unknown"},
		{"xx", "XX"},
	}
	for _, tt := range tests {
		result := DisplayName(tt.input)
		if result != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestIsTagged(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"en", true},
		{"eng", true},
		{"zxx", true},
		{"und", false},
		{"unknown", false},
		{"", false},
		{"  ", false},
	}
	for _, tt := range tests {
		if got := IsTagged(tt.input); got != tt.expected {
			t.Errorf("IsTagged(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestExtractFromTags(t *testing.T) {
	tests := []struct {
		name     string
		tags     map[string]string
		expected string
	}{
		{"lowercase key", map[string]string{"language": "eng"}, "eng"},
		{"uppercase key", map[string]string{"LANGUAGE": "fre"}, "fre"},
		{"ietf key", map[string]string{"language_ietf": "de"}, "de"},
		{"short key", map[string]string{"lang": "spa"}, "spa"},
		{"null bytes stripped", map[string]string{"language": "en\x00\x00"}, "en"},
		{"no language tag", map[string]string{"title": "Director Commentary"}, ""},
		{"nil map", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractFromTags(tt.tags)
			if result != tt.expected {
				t.Errorf("ExtractFromTags(%v) = %q, want %q", tt.tags, result, tt.expected)
			}
		})
	}
}
