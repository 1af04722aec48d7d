package util

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestSliceToMap(t *testing.T) {
	RegisterTestingT(t)

	res, err := SliceToMap([]string{"X-Team=search", "X-Query=a=b", "X-Empty="})
	Expect(err).To(BeNil())
	Expect(res).To(Equal(map[string]string{
		"X-Team":  "search",
		"X-Query": "a=b",
		"X-Empty": "",
	}))
}

func TestSliceToMapEmpty(t *testing.T) {
	RegisterTestingT(t)

	res, err := SliceToMap(nil)
	Expect(err).To(BeNil())
	Expect(res).To(BeEmpty())
}

func TestSliceToMapMalformed(t *testing.T) {
	RegisterTestingT(t)

	for _, in := range []string{"no-separator", "=value"} {
		_, err := SliceToMap([]string{"ok=1", in})
		Expect(err).To(MatchError(ContainSubstring(in)))
	}
}
