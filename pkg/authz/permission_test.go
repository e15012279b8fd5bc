package authz

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Permission
	}{
		{"", Permission{}},
		{"r", Permission{Read: true}},
		{"w", Permission{Write: true}},
		{"d", Permission{Delete: true}},
		{"rw", Permission{Read: true, Write: true}},
		{"rwd", Permission{Read: true, Write: true, Delete: true}},
		{"dwr", Permission{Read: true, Write: true, Delete: true}},
		{"x", Permission{}}, // unknown characters ignored
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	if got := FullAccess.String(); got != "rwd" {
		t.Errorf("FullAccess.String() = %q, want %q", got, "rwd")
	}
	if got := (Permission{}).String(); got != "" {
		t.Errorf("empty Permission.String() = %q, want empty", got)
	}
}

func TestIsAllowed_SubsetSemantics(t *testing.T) {
	tests := []struct {
		name        string
		requirement Permission
		grant       Permission
		want        bool
	}{
		{"exact match", WriteAccess, WriteAccess, true},
		{"grant may exceed requirement", WriteAccess, FullAccess, true},
		{"read grant does not satisfy write", WriteAccess, ReadAccess, false},
		{"all-false grant denies everything", ReadAccess, Permission{}, false},
		{"empty requirement always allowed", Permission{}, Permission{}, true},
		{"delete requires delete", DeleteAccess, Permission{Read: true, Write: true}, false},
		{"combined requirement needs every flag", Permission{Read: true, Write: true}, Permission{Read: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.requirement.IsAllowed(tt.grant); got != tt.want {
				t.Errorf("(%+v).IsAllowed(%+v) = %v, want %v", tt.requirement, tt.grant, got, tt.want)
			}
		})
	}
}
