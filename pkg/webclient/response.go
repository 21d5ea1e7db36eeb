package webclient

// HandleResponse receives the outcome of one request.
type HandleResponse[T any] func(Response[T])

// Response is the envelope delivered for every request. It is built once,
// after the transport resolves, and is read-only afterwards.
//
// IsSuccess reflects the transport status only. A 2xx response whose body
// could not be decoded is still successful; its payload is absent.
type Response[T any] struct {
	dto          T
	hasDto       bool
	isOK         bool
	statusCode   int
	errorMessage string
}

func newResponse[T any](dto T, hasDto, isOK bool, statusCode int, message string) Response[T] {
	if !hasDto {
		var zero T
		dto = zero
	}
	return Response[T]{
		dto:          dto,
		hasDto:       hasDto,
		isOK:         isOK,
		statusCode:   statusCode,
		errorMessage: message,
	}
}

// Payload returns the decoded body and whether one is present.
func (r Response[T]) Payload() (T, bool) { return r.dto, r.hasDto }

// Dto returns a copy of the decoded body, or nil when absent.
func (r Response[T]) Dto() *T {
	if !r.hasDto {
		return nil
	}
	dto := r.dto
	return &dto
}

func (r Response[T]) IsSuccess() bool { return r.isOK }
func (r Response[T]) StatusCode() int { return r.statusCode }

// ErrorMessage is the transport's message for the exchange: the status
// reason phrase, or the transport error when no response arrived.
func (r Response[T]) ErrorMessage() string { return r.errorMessage }
