package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/oselz/docqa-web-ui/internal/session"
)

const answersBucket = "answers"

// AnswerCache is a bbolt-backed question-to-answer cache. It caches raw answer text only; it is
// not a chat history, and nothing of the transcript or session state ever lands in it.
type AnswerCache struct {
	db *bolt.DB
}

type cachedAnswer struct {
	Answer   string    `json:"answer"`
	StoredAt time.Time `json:"storedAt"`
}

// NewAnswerCache opens (or creates, with 0600 permissions) the cache database at the specified
// file path and ensures the answers bucket exists.
func NewAnswerCache(path string) (AnswerCache, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return AnswerCache{}, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(answersBucket))
		return err
	})

	return AnswerCache{db: db}, err
}

// Get returns the cached answer for question, or false when there is none.
func (a AnswerCache) Get(question string) (string, bool, error) {
	var answer string
	found := false
	err := a.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(answersBucket))
		if b == nil {
			return nil
		}

		v := b.Get([]byte(question))
		if v == nil {
			return nil
		}

		var ca cachedAnswer
		if err := json.Unmarshal(v, &ca); err != nil {
			return fmt.Errorf("failed to unmarshal cached answer: %w", err)
		}
		answer = ca.Answer
		found = true
		return nil
	})
	return answer, found, err
}

// Put stores the answer for question, overwriting any previous entry.
func (a AnswerCache) Put(question, answer string) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(answersBucket))
		if b == nil {
			return nil
		}

		v, err := json.Marshal(cachedAnswer{
			Answer:   answer,
			StoredAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal cached answer: %w", err)
		}

		return b.Put([]byte(question), v)
	})
}

// Close releases the underlying database file.
func (a AnswerCache) Close() error {
	return a.db.Close()
}

// CachedDispatcher wraps a dispatcher with the answer cache: a hit short-circuits the network
// attempt, a miss dispatches once and stores the result. Cache read/write failures are logged
// and fall through to plain dispatch, never surfacing as session errors.
type CachedDispatcher struct {
	next  session.Dispatcher
	cache AnswerCache

	logger *slog.Logger
}

// NewCachedDispatcher wraps next with cache.
func NewCachedDispatcher(next session.Dispatcher, cache AnswerCache, logger *slog.Logger) CachedDispatcher {
	return CachedDispatcher{
		next:   next,
		cache:  cache,
		logger: logger.With(slog.String("module", "answercache")),
	}
}

const errLoggerKey = "err"

// Send resolves the question from the cache when possible, dispatching and caching otherwise.
func (c CachedDispatcher) Send(ctx context.Context, question string) (string, error) {
	answer, found, err := c.cache.Get(question)
	if err != nil {
		c.logger.Error("Failed to read answer cache", slog.String(errLoggerKey, err.Error()))
	}
	if found {
		c.logger.Debug("Answer cache hit")
		return answer, nil
	}

	answer, err = c.next.Send(ctx, question)
	if err != nil {
		return "", err
	}

	if err := c.cache.Put(question, answer); err != nil {
		c.logger.Error("Failed to store answer in cache", slog.String(errLoggerKey, err.Error()))
	}
	return answer, nil
}
