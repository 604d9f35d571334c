package models

import (
	// Go Internal Packages
	"fmt"
)

type Record struct {
	Key       []byte
	Value     []byte
	Topic     string
	Partition int32
	Offset    int64
}

// Position identifies the record on its topic. Unlike Key it is unique: one
// authority produces several events.
func (r Record) Position() string {
	return fmt.Sprintf("%s:%d:%d", r.Topic, r.Partition, r.Offset)
}
