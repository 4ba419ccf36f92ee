package handlers

import (
	"net/http"
)

type quizTodayResponse struct {
	Question quizQuestionDTO `json:"question"`
	Answer   *quizAnswerDTO  `json:"answer"`
}

// QuizToday hides the correct option until the caller has answered.
func (a *App) QuizToday(w http.ResponseWriter, r *http.Request) {
	today, err := a.Quiz.Today(r.Context(), a.currentIdentifier(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, quizTodayResponse{
		Question: toQuizQuestion(today.Question, today.Answer != nil),
		Answer:   toQuizAnswer(today.Answer),
	})
}

type quizAnswerRequest struct {
	Selected *int `json:"selectedAnswer"`
}

func (a *App) QuizAnswer(w http.ResponseWriter, r *http.Request) {
	var req quizAnswerRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Selected == nil {
		a.error(w, r, http.StatusBadRequest, "invalid_answer")
		return
	}
	ans, q, err := a.Quiz.Submit(r.Context(), a.currentIdentifier(r), *req.Selected)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, quizTodayResponse{
		Question: toQuizQuestion(q, true),
		Answer:   toQuizAnswer(ans),
	})
}
