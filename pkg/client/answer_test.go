package client

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func TestSaveAnswer(t *testing.T) {
	RegisterTestingT(t)

	fileName := filepath.Join(t.TempDir(), "nested", "answer.md")
	report, err := SaveAnswer(fileName, "Go is a programming language.")
	Expect(err).To(BeNil())
	Expect(report).To(HavePrefix("answer saved to "))
	Expect(report).To(ContainSubstring("answer.md"))

	content, err := os.ReadFile(fileName)
	Expect(err).To(BeNil())
	Expect(string(content)).To(Equal("Go is a programming language."))
}

func TestSaveAnswerFailure(t *testing.T) {
	RegisterTestingT(t)

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	Expect(os.WriteFile(blocker, nil, 0o644)).To(Succeed())

	_, err := SaveAnswer(filepath.Join(blocker, "answer.md"), "text")
	Expect(err).NotTo(BeNil())
}
