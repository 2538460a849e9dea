package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

var (
	// ErrUnsupportedFormat is returned for files that are not plain text.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrEmptyText is returned when nothing practicable is left after cleaning.
	ErrEmptyText = errors.New("no practice text left after cleaning")
)

// Text is cleaned practice text and where it came from.
type Text struct {
	Body  string
	Label string
	Size  int64
}

// Describe returns a short human readable description such as "notes.txt (2.1 kB)".
func (t Text) Describe() string {
	if t.Size <= 0 {
		return t.Label
	}
	return fmt.Sprintf("%s (%s)", t.Label, humanize.Bytes(uint64(t.Size)))
}

// LoadFile reads a plain-text file and cleans it for practice.
func LoadFile(path string) (Text, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return Text{}, fmt.Errorf("%w: %s (PDF extraction is not supported, save it as .txt)", ErrUnsupportedFormat, filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Text{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !isPlainText(data) {
		return Text{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	body := Clean(string(data))
	if body == "" {
		return Text{}, fmt.Errorf("%w: %s", ErrEmptyText, filepath.Base(path))
	}
	return Text{Body: body, Label: filepath.Base(path), Size: int64(len(data))}, nil
}

// isPlainText accepts anything sniffed as text/*, plus valid UTF-8 without NUL
// bytes, so a .txt that happens to start like markup is still practicable.
func isPlainText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if strings.HasPrefix(http.DetectContentType(data), "text/") {
		return true
	}
	return utf8.Valid(data) && !bytes.ContainsRune(data, 0)
}

// LoadWords reads one word per line, keeping words made only of practice characters.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if !practicable(word) {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

func practicable(word string) bool {
	if word == "" || strings.ContainsRune(word, ' ') {
		return false
	}
	return Clean(word) == word
}
