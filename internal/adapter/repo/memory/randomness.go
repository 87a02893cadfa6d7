package memory

import (
	"context"
	"sort"

	"actionforge/internal/domain/queue"
)

// WordSource keeps revealed random words in memory, ordered by reveal time.
type WordSource struct {
	store *Store
}

func NewWordSource(store *Store) WordSource {
	return WordSource{store: store}
}

func (s *Store) PublishWord(at int64, word queue.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := sort.Search(len(s.words), func(i int) bool { return s.words[i].at > at })
	s.words = append(s.words, publishedWord{})
	copy(s.words[i+1:], s.words[i:])
	s.words[i] = publishedWord{at: at, word: word}
}

func (w WordSource) WordFor(ctx context.Context, ts int64) (queue.Word, bool, error) {
	var (
		word queue.Word
		ok   bool
	)
	w.store.read(ctx, func() {
		i := sort.Search(len(w.store.words), func(i int) bool { return w.store.words[i].at > ts })
		if i < len(w.store.words) {
			word, ok = w.store.words[i].word, true
		}
	})
	return word, ok, nil
}
