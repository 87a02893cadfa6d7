package queue

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Word is one revealed random word.
type Word [32]byte

// Words maps the end time of an action to the first word revealed after it.
type Words map[int64]Word

func (w Words) At(ts int64) (Word, bool) {
	if w == nil {
		return Word{}, false
	}
	word, ok := w[ts]
	return word, ok
}

// drawValue derives an independent 16-bit roll for one reward of one queued
// action from a shared word.
func drawValue(word Word, playerID, queueID string, index int) uint32 {
	h := sha3.NewLegacyKeccak256()
	h.Write(word[:])
	h.Write([]byte(playerID))
	h.Write([]byte(queueID))
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], uint32(index))
	h.Write(idx[:])
	sum := h.Sum(nil)
	return uint32(binary.BigEndian.Uint16(sum[:2]))
}

func rollRewards(word Word, playerID, queueID string, rewards []RandomReward) []ItemAmount {
	var out []ItemAmount
	for i, r := range rewards {
		if r.Amount == 0 || r.Chance == 0 {
			continue
		}
		if drawValue(word, playerID, queueID, i) < r.Chance {
			out = append(out, ItemAmount{ItemID: r.ItemID, Amount: r.Amount})
		}
	}
	return out
}
