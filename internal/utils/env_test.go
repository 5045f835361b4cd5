package utils

import "testing"

func TestGetEnv(t *testing.T) {
	if got := GetEnv("BOOKRADAR_TEST_UNSET", "fallback", nil); got != "fallback" {
		t.Fatalf("unset: want=fallback got=%s", got)
	}
	t.Setenv("BOOKRADAR_TEST_STR", "value")
	if got := GetEnv("BOOKRADAR_TEST_STR", "fallback", nil); got != "value" {
		t.Fatalf("set: want=value got=%s", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	if got := GetEnvAsInt("BOOKRADAR_TEST_UNSET", 30, nil); got != 30 {
		t.Fatalf("unset: want=30 got=%d", got)
	}
	t.Setenv("BOOKRADAR_TEST_INT", "45")
	if got := GetEnvAsInt("BOOKRADAR_TEST_INT", 30, nil); got != 45 {
		t.Fatalf("set: want=45 got=%d", got)
	}
	t.Setenv("BOOKRADAR_TEST_INT", "not-a-number")
	if got := GetEnvAsInt("BOOKRADAR_TEST_INT", 30, nil); got != 30 {
		t.Fatalf("malformed: want=30 got=%d", got)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"t", true},
		{"false", false},
		{"0", false},
		{"yes", false},
	}
	for _, tc := range cases {
		t.Setenv("BOOKRADAR_TEST_BOOL", tc.value)
		if got := GetEnvAsBool("BOOKRADAR_TEST_BOOL", false, nil); got != tc.want {
			t.Fatalf("value=%q: want=%v got=%v", tc.value, tc.want, got)
		}
	}
	if got := GetEnvAsBool("BOOKRADAR_TEST_UNSET", true, nil); got != true {
		t.Fatalf("unset: want=true got=false")
	}
}
