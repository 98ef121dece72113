package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been started or was discarded.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrUnknownQuestion indicates an answer references a question outside the active set.
	ErrUnknownQuestion = errors.New("question not found")
	// ErrUnknownOption indicates an answer references an option the question does not offer.
	ErrUnknownOption = errors.New("option not found")
	// ErrInvalidOption indicates a selected option index is out of range.
	ErrInvalidOption = errors.New("option index out of range")
	// ErrAnswerRequired is the validation failure for advancing without a selected answer.
	ErrAnswerRequired = errors.New("please select an answer before proceeding")
	// ErrAnswerLocked is returned when changing an answer while its explanation is shown.
	ErrAnswerLocked = errors.New("answer is locked while the explanation is shown")
	// ErrQuizFinished is returned when mutating a completed quiz.
	ErrQuizFinished = errors.New("quiz already completed")
	// ErrNoQuestions is returned when acting on a quiz whose filters matched nothing.
	ErrNoQuestions = errors.New("no questions available for the selected filters")
	// ErrModuleNotFound indicates a module id outside the module catalog.
	ErrModuleNotFound = errors.New("module not found")
	// ErrAssessmentNotFound indicates an unknown assessment kind.
	ErrAssessmentNotFound = errors.New("assessment not found")
	// ErrProfileRequired is returned when a progress operation has no profile id.
	ErrProfileRequired = errors.New("profile id required")
	// ErrProgressUnavailable is returned when stored progress could not be read.
	ErrProgressUnavailable = errors.New("progress storage unavailable")
	// ErrInvalidQuantity indicates a trade for zero or negative shares.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInsufficientFunds indicates a purchase larger than the available cash.
	ErrInsufficientFunds = errors.New("insufficient funds for this purchase")
	// ErrInsufficientShares indicates selling more shares than are held.
	ErrInsufficientShares = errors.New("insufficient shares to sell")
	// ErrUnknownSymbol indicates a stock symbol outside the market feed.
	ErrUnknownSymbol = errors.New("unknown stock symbol")
)
