package restore

import (
	"iter"

	"backup-validator/core/object"
)

// Sample returns the keys of the first n objects of seq, in enumeration order.
// It stops pulling from seq once n keys are collected, so a small sample never
// materialises a full listing. n <= 0 returns an empty slice without pulling.
func Sample(seq iter.Seq2[object.Descriptor, error], n int) ([]string, error) {
	keys := make([]string, 0, max(n, 0))
	if n <= 0 {
		return keys, nil
	}

	for obj, err := range seq {
		if err != nil {
			return nil, err
		}
		keys = append(keys, obj.Key)
		if len(keys) == n {
			break
		}
	}
	return keys, nil
}
