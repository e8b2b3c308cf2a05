package errs

import "net/http"

// Stable error codes. 1xxx auth, 2xxx validation, 3xxx records, 4xxx
// permissions. User-facing messages are Arabic, the product language.
const (
	CodeUnauthenticated = 1001
	CodeTokenInvalid    = 1002
	CodeTokenExpired    = 1003
	CodeBadCredentials  = 1004

	CodeValidation = 2001

	CodeRecordNotFound = 3001
	CodeRecordExists   = 3002

	CodeForbidden = 4001
	CodeBlocked   = 4002

	CodeServerInternal = 5001
)

var (
	ErrUnauthenticated = NewCodeError(CodeUnauthenticated, "يجب تسجيل الدخول أولاً")
	ErrTokenInvalid    = NewCodeError(CodeTokenInvalid, "رمز الدخول غير صالح")
	ErrTokenExpired    = NewCodeError(CodeTokenExpired, "انتهت صلاحية رمز الدخول")
	ErrBadCredentials  = NewCodeError(CodeBadCredentials, "اسم المستخدم أو كلمة المرور غير صحيحة")

	ErrValidation = NewCodeError(CodeValidation, "البيانات المدخلة غير صحيحة")

	ErrRecordNotFound = NewCodeError(CodeRecordNotFound, "العنصر المطلوب غير موجود")
	ErrRecordExists   = NewCodeError(CodeRecordExists, "العنصر موجود مسبقاً")

	ErrForbidden = NewCodeError(CodeForbidden, "ليس لديك صلاحية لهذا الإجراء")
	ErrBlocked   = NewCodeError(CodeBlocked, "لا يمكنك مراسلة هذا المستخدم")

	ErrServerInternal = NewCodeError(CodeServerInternal, "حدث خطأ في الخادم")
)

// HTTPStatus maps an error code to the status the gin handlers answer with.
func HTTPStatus(code int) int {
	switch code {
	case CodeUnauthenticated, CodeTokenInvalid, CodeTokenExpired, CodeBadCredentials:
		return http.StatusUnauthorized
	case CodeValidation:
		return http.StatusBadRequest
	case CodeRecordNotFound:
		return http.StatusNotFound
	case CodeRecordExists:
		return http.StatusConflict
	case CodeForbidden, CodeBlocked:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
