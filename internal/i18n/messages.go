// Package i18n holds the user-facing API messages in Arabic and English and
// the JSON error envelope shared by middleware and handlers.
package i18n

import (
	"encoding/json"
	"net/http"
)

const (
	Arabic  = "ar"
	English = "en"
)

var catalogue = map[string]map[string]string{
	"quota_exceeded": {
		Arabic:  "لقد استنفدت أسئلتك اليومية. اشترك للحصول على أسئلة غير محدودة أو عد غدًا.",
		English: "You have used all of today's questions. Subscribe for unlimited questions or come back tomorrow.",
	},
	"provider_error": {
		Arabic:  "تعذر الحصول على إجابة الآن. يرجى المحاولة مرة أخرى بعد قليل.",
		English: "We could not get an answer right now. Please try again shortly.",
	},
	"in_flight": {
		Arabic:  "سؤالك السابق ما زال قيد المعالجة.",
		English: "Your previous question is still being answered.",
	},
	"invalid_question": {
		Arabic:  "يرجى كتابة سؤال صالح.",
		English: "Please enter a valid question.",
	},
	"invalid_request": {
		Arabic:  "الطلب غير صالح.",
		English: "The request is invalid.",
	},
	"invalid_answer": {
		Arabic:  "الخيار المحدد غير صالح.",
		English: "The selected option is not valid.",
	},
	"invalid_setting": {
		Arabic:  "قيمة الإعداد غير صالحة.",
		English: "The setting value is not valid.",
	},
	"already_answered": {
		Arabic:  "لقد أجبت على سؤال اليوم بالفعل.",
		English: "You have already answered today's question.",
	},
	"not_found": {
		Arabic:  "العنصر غير موجود.",
		English: "Not found.",
	},
	"unauthorized": {
		Arabic:  "غير مصرح لك.",
		English: "You are not authorized.",
	},
	"rate_limited": {
		Arabic:  "طلبات كثيرة جدًا. يرجى الانتظار قليلًا.",
		English: "Too many requests. Please slow down.",
	},
	"internal": {
		Arabic:  "حدث خطأ غير متوقع.",
		English: "Something went wrong.",
	},
}

// Normalize maps anything that is not Arabic to English.
func Normalize(locale string) string {
	if locale == Arabic {
		return Arabic
	}
	return English
}

// Message returns the localized text for code, falling back to the generic
// internal message for unknown codes.
func Message(locale, code string) string {
	m, ok := catalogue[code]
	if !ok {
		m = catalogue["internal"]
	}
	return m[Normalize(locale)]
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes the localized envelope for code with the given status.
func WriteError(w http.ResponseWriter, locale string, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: ErrorDetail{Code: code, Message: Message(locale, code)}})
}
