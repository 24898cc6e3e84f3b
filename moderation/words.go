package moderation

import (
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const blacklistPrefix = "blacklist:"

// SeedWords stores dictionary entries under the blacklist prefix, one key per word.
// Values stay empty, the word lives in the key itself.
func SeedWords(db *badger.DB, words []string) error {
	wb := db.NewWriteBatch()
	defer wb.Cancel()

	for _, w := range words {
		trimmed := strings.TrimSpace(w)
		if trimmed == "" {
			continue
		}
		if err := wb.Set([]byte(blacklistPrefix+trimmed), nil); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// LoadWords reads the full dictionary back from the blacklist keys.
// PrefetchValues stays off since there is nothing to fetch beyond the keys.
func LoadWords(db *badger.DB) ([]string, error) {
	var words []string
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(blacklistPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			words = append(words, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return words, err
}
