package model

import "fmt"

const (
	defaultMaxCells    = 1_000_000
	defaultMaxCellSize = 4096
)

// Limits bounds the models accepted at the input boundary. Zero values
// disable the corresponding ceiling; the lower bound of 1 always applies.
type Limits struct {
	MaxCells    int `json:"maxCells" yaml:"maxCells"`
	MaxCellSize int `json:"maxCellSize" yaml:"maxCellSize"`
}

// DefaultLimits returns the ceilings used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxCells:    defaultMaxCells,
		MaxCellSize: defaultMaxCellSize,
	}
}

func (l Limits) checkField(field string, value int) string {
	if value < 1 {
		return "must be a positive integer"
	}
	switch field {
	case FieldColSize, FieldRowSize:
		if l.MaxCellSize > 0 && value > l.MaxCellSize {
			return fmt.Sprintf("must not exceed %d", l.MaxCellSize)
		}
	case FieldCols, FieldRows:
		if l.MaxCells > 0 && value > l.MaxCells {
			return fmt.Sprintf("must not exceed %d", l.MaxCells)
		}
	}
	return ""
}
