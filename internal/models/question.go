package models

// Question is one interview practice question from the static bank.
type Question struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Text     string `json:"text"`
}

// NextQuestionsRequest asks for a batch of unseen questions.
type NextQuestionsRequest struct {
	Count int `json:"count" validate:"required,gt=0,lte=20"`
}
