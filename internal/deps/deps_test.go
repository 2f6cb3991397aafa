package deps

import "testing"

func TestCheckBinaries(t *testing.T) {
	requirements := []Requirement{
		{Name: "Shell", Command: "sh", Description: "always present"},
		{Name: "Ghost", Command: "definitely-not-a-real-binary-mkvlang", Description: "never present"},
		{Name: "Unconfigured", Command: "   ", Description: "blank command"},
		{Name: "OptionalGhost", Command: "another-missing-binary", Description: "missing but optional", Optional: true},
	}

	statuses := CheckBinaries(requirements)
	if len(statuses) != 4 {
		t.Fatalf("got %d statuses, want 4", len(statuses))
	}

	if !statuses[0].Available {
		t.Errorf("sh should be available: %+v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Detail == "" {
		t.Errorf("missing binary status = %+v", statuses[1])
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" {
		t.Errorf("blank command status = %+v", statuses[2])
	}
	if !statuses[3].Optional {
		t.Errorf("optional flag lost: %+v", statuses[3])
	}

	missing := MissingRequired(statuses)
	if len(missing) != 2 {
		t.Fatalf("missing = %v, want Ghost and Unconfigured", missing)
	}
	for _, name := range missing {
		if name == "OptionalGhost" {
			t.Error("optional dependency reported as missing required")
		}
	}
}

func TestRequiredList(t *testing.T) {
	requirements := Required()

	byCommand := make(map[string]Requirement, len(requirements))
	for _, req := range requirements {
		byCommand[req.Command] = req
	}

	for _, cmd := range []string{"ffmpeg", "ffprobe", "mkvpropedit", "uv"} {
		req, ok := byCommand[cmd]
		if !ok {
			t.Errorf("required list missing %s", cmd)
			continue
		}
		if req.Optional {
			t.Errorf("%s should not be optional", cmd)
		}
	}
	for _, cmd := range []string{"mkvmerge", "tesseract"} {
		req, ok := byCommand[cmd]
		if !ok {
			t.Errorf("required list missing %s", cmd)
			continue
		}
		if !req.Optional {
			t.Errorf("%s should be optional", cmd)
		}
	}
}
