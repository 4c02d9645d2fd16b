package types

type CreateFeedbackInput struct {
	AgrovetID    uint64
	CustomerName string
	Rating       float64
	Comment      string
}
