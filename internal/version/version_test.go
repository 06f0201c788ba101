package version

import "testing"

func TestParseBuildType(t *testing.T) {
	for _, bt := range BuildTypes() {
		got, err := ParseBuildType(string(bt))
		if err != nil {
			t.Errorf("ParseBuildType(%q) returned error: %v", bt, err)
		}
		if got != bt {
			t.Errorf("ParseBuildType(%q) = %q", bt, got)
		}
	}
}

func TestParseBuildTypeInvalid(t *testing.T) {
	for _, s := range []string{"", "release", "RELEASE", "Debug ", "Foo"} {
		if _, err := ParseBuildType(s); err == nil {
			t.Errorf("ParseBuildType(%q) succeeded, want error", s)
		}
	}
}

func TestKeyString(t *testing.T) {
	k := Key{Version: "9.0.0", Type: Release}
	if got := k.String(); got != "9.0.0-Release" {
		t.Errorf("String() = %q, want %q", got, "9.0.0-Release")
	}
	if k.DirName() != k.String() {
		t.Error("DirName() and String() disagree")
	}
}

func TestParseDirName(t *testing.T) {
	tests := []struct {
		name string
		want Key
		ok   bool
	}{
		{"9.0.0-Release", Key{Version: "9.0.0", Type: Release}, true},
		{"3.4-Debug", Key{Version: "3.4", Type: Debug}, true},
		{"10.0.1-RelWithDebInfo", Key{Version: "10.0.1", Type: RelWithDebInfo}, true},
		{"2.6-MinSizeRel", Key{Version: "2.6", Type: MinSizeRel}, true},
		{"9.0.0-release", Key{}, false}, // build type is case sensitive
		{"9.0.0", Key{}, false},         // no build type
		{"-Release", Key{}, false},      // no version
		{"9.0.0-", Key{}, false},
		{"notaversion-Release", Key{}, false},
		{"1.0-Release", Key{}, false}, // below minimum supported release
		{"lost+found", Key{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDirName(tt.name)
		if ok != tt.ok {
			t.Errorf("ParseDirName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseDirName(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}
