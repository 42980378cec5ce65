package keys

import (
	"regexp"
	"testing"
	"unicode"
)

func intPtr(v int) *int { return &v }

func TestDeterminism_SameInputsSameKey(t *testing.T) {
	k1 := Key("province-with-regions", Int("id", 5), String("sort", "growth"), OptInt("limit", intPtr(3)))
	k2 := Key("province-with-regions", Int("id", 5), String("sort", "growth"), OptInt("limit", intPtr(3)))
	if k1 != k2 {
		t.Fatalf("determinism failed:\n k1=%s\n k2=%s", k1, k2)
	}
}

func TestInjectivity_DistinctParamsDistinctKeys(t *testing.T) {
	seen := map[string]string{}
	cases := []struct {
		desc string
		key  string
	}{
		{"no params", Key("regions", OptInt("limit", nil), OptInt("offset", nil))},
		{"limit 0", Key("regions", OptInt("limit", intPtr(0)), OptInt("offset", nil))},
		{"limit 10", Key("regions", OptInt("limit", intPtr(10)), OptInt("offset", nil))},
		{"offset 10", Key("regions", OptInt("limit", nil), OptInt("offset", intPtr(10)))},
		{"other op", Key("region", Int("id", 10))},
		{"swapped values", Key("regions", OptInt("limit", intPtr(20)), OptInt("offset", intPtr(40)))},
		{"swapped values 2", Key("regions", OptInt("limit", intPtr(40)), OptInt("offset", intPtr(20)))},
	}
	for _, c := range cases {
		if prior, dup := seen[c.key]; dup {
			t.Fatalf("key collision between %q and %q: %s", prior, c.desc, c.key)
		}
		seen[c.key] = c.desc
	}
}

func TestAbsentParamUsesSentinel(t *testing.T) {
	k := Key("regions", OptInt("limit", nil))
	want := regexp.MustCompile(`limit=none`)
	if !want.MatchString(k) {
		t.Fatalf("absent param not normalized to sentinel: %s", k)
	}
}

func TestSanitization_NonASCIIValuesStayInjective(t *testing.T) {
	// Hangul values sanitize to the same readable run but the hash suffix
	// must keep the keys apart.
	k1 := Key("province-with-regions", String("name", "서울"))
	k2 := Key("province-with-regions", String("name", "부산"))
	if k1 == k2 {
		t.Fatal("sanitized keys collided for distinct values")
	}
	for _, r := range k1 {
		if r > unicode.MaxASCII {
			t.Fatalf("non-ASCII rune leaked into key: %q in %s", r, k1)
		}
	}
	if !regexp.MustCompile(`:h=[0-9a-f]{16}$`).MatchString(k1) {
		t.Fatalf("missing hash suffix in key: %s", k1)
	}
}
