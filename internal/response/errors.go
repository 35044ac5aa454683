package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// Authentication
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// Authorization
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTutorAccessOnly   ErrCode = "TUTOR_ACCESS_ONLY"

	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// Exam-specific
	ErrExamNotFound     ErrCode = "EXAM_NOT_FOUND"
	ErrExamCompleted    ErrCode = "EXAM_ALREADY_COMPLETED"
	ErrNoActiveSession  ErrCode = "NO_ACTIVE_SESSION"
	ErrAlreadySubmitted ErrCode = "ALREADY_SUBMITTED"
	ErrQuestionNotFound ErrCode = "QUESTION_NOT_FOUND"
	ErrSubmitFailed     ErrCode = "SUBMIT_FAILED"

	// Rate Limiting
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// Server
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "E-posta veya şifre hatalı."
	case ErrSessionActive:
		return "Başka bir cihazda zaten oturum açılmış."
	case ErrSessionInvalidated:
		return "Oturumunuz sona erdi. Lütfen tekrar giriş yapın."
	case ErrTokenRequired:
		return "Kimlik doğrulama token'ı gerekli."
	case ErrTokenInvalid:
		return "Kimlik doğrulama token'ı geçersiz."

	case ErrForbidden:
		return "Bu kaynağa erişim izniniz yok."
	case ErrStudentAccessOnly:
		return "Bu kaynak yalnızca öğrenciler içindir."
	case ErrTutorAccessOnly:
		return "Bu kaynak yalnızca eğitmenler içindir."

	case ErrValidation:
		return "Doğrulama başarısız. Lütfen girdilerinizi kontrol edin."
	case ErrInvalidID:
		return "Geçersiz ID formatı."
	case ErrInvalidPayload:
		return "Geçersiz istek gövdesi."

	case ErrNotFound:
		return "Kaynak bulunamadı."
	case ErrConflict:
		return "Kaynak zaten mevcut."

	case ErrExamNotFound:
		return "Sınav bulunamadı. Sınav listesine yönlendiriliyorsunuz."
	case ErrExamCompleted:
		return "Bu sınavı zaten tamamladınız. Sonuçlarınıza yönlendiriliyorsunuz."
	case ErrNoActiveSession:
		return "Bu sınav için aktif bir oturumunuz yok."
	case ErrAlreadySubmitted:
		return "Bu sınav zaten gönderildi."
	case ErrQuestionNotFound:
		return "Soru bu sınavda bulunamadı."
	case ErrSubmitFailed:
		return "Gönderim başarısız oldu. Lütfen tekrar deneyin."

	case ErrRateLimitExceeded:
		return "Çok fazla istek. Lütfen daha sonra tekrar deneyin."

	case ErrInternal:
		return "Sunucu hatası oluştu."
	default:
		return "Beklenmeyen bir hata oluştu."
	}
}
