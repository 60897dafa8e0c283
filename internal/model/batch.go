package model

import "github.com/google/uuid"

// BatchItem is one row of batch data: the text to encode and an optional
// caption printed under the symbol.
type BatchItem struct {
	ID    string `json:"id"`
	Data  string `json:"data"`
	Label string `json:"label"`
}

func NewBatchItem(data, label string) BatchItem {
	return BatchItem{
		ID:    uuid.New().String()[:8],
		Data:  data,
		Label: label,
	}
}

// Caption returns the label, falling back to the data.
func (b BatchItem) Caption() string {
	if b.Label != "" {
		return b.Label
	}
	return b.Data
}
