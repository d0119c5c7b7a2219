package runtime

import (
	"chat-relay/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)

	// Given two language files sharing a word, with windows line endings and blanks
	files := fstest.MapFS{
		"censored/en.txt":     {Data: []byte("badger\r\nsnake\r\n\r\n")},
		"censored/fr.txt":     {Data: []byte("  blaireau \nbadger\n")},
		"censored/README.md":  {Data: []byte("not a list")},
		"censored/old/de.txt": {Data: []byte("dachs")},
	}

	// When loading the directory
	data, err := NewCensoredLoader(files).LoadAll("censored")

	// Then words are unique, trimmed and sub directories are ignored
	req.NoError(err)
	req.Equal([]string{"en", "fr"}, data.Languages)
	req.ElementsMatch([]string{"badger", "snake", "blaireau"}, data.Words)
}

func TestCensoredLoader_Empty_Directory(t *testing.T) {
	req := require.New(t)
	files := fstest.MapFS{
		"censored/en.txt": {Data: []byte("\n\n")},
	}

	_, err := NewCensoredLoader(files).LoadAll("censored")

	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestCensoredLoader_Missing_Directory(t *testing.T) {
	req := require.New(t)

	_, err := NewCensoredLoader(fstest.MapFS{}).LoadAll("censored")

	req.Error(err)
}
