package service

import "errors"

var (
	ErrFloodFillNotFound = errors.New("floodfill not found")
	ErrPixelNotFound     = errors.New("pixel not found")
	ErrInvalidPalette    = errors.New("invalid palette: at least one non-empty color is required")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrInvalidPaint      = errors.New("invalid paint request")
	ErrGridBusy          = errors.New("floodfill is being modified, try again")
	ErrInternalServer    = errors.New("internal server error")
)
