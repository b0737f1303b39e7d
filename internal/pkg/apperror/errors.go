package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Newf создаёт ошибку с форматированным сообщением.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

// AsAppError извлекает AppError из цепочки ошибок.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

var (
	ErrTaskerNotFound   = New(ErrCodeNotFound, "исполнитель не найден")
	ErrTaskNotFound     = New(ErrCodeNotFound, "услуга не найдена")
	ErrCategoryNotFound = New(ErrCodeNotFound, "категория не найдена")
	ErrBookingNotFound  = New(ErrCodeNotFound, "бронирование не найдено")
	ErrUserNotFound     = New(ErrCodeNotFound, "пользователь не найден")
	ErrUnauthorized     = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden        = New(ErrCodeForbidden, "недостаточно прав")

	ErrReviewNotFound       = New(ErrCodeNotFound, "отзыв не найден")
	ErrPaymentNotFound      = New(ErrCodeNotFound, "платёж не найден")
	ErrPayoutNotFound       = New(ErrCodeNotFound, "выплата не найдена")
	ErrVerificationNotFound = New(ErrCodeNotFound, "заявка на верификацию не найдена")
	ErrSessionNotFound      = New(ErrCodeNotFound, "сессия не найдена")

	ErrEmailTaken          = New(ErrCodeConflict, "email уже зарегистрирован")
	ErrUsernameTaken       = New(ErrCodeConflict, "имя пользователя занято")
	ErrTaskerExists        = New(ErrCodeConflict, "профиль исполнителя уже создан")
	ErrSkillExists         = New(ErrCodeConflict, "навык в этой категории уже добавлен")
	ErrSlugTaken           = New(ErrCodeConflict, "slug уже используется")
	ErrReviewExists        = New(ErrCodeConflict, "отзыв на это бронирование уже оставлен")
	ErrFavoriteExists      = New(ErrCodeConflict, "уже в избранном")
	ErrInvalidTransition   = New(ErrCodeConflict, "недопустимый переход статуса")
	ErrInsufficientBalance = New(ErrCodeConflict, "недостаточно средств для выплаты")
)
