package griderrors

type ErrorCode string

const (
	// ConfigurationError is returned when an operation needs a capability the client was not
	// constructed with, such as writing without a signer.
	ConfigurationError ErrorCode = "ConfigurationError"
	// ValidationError is returned before any I/O when an argument is invalid.
	ValidationError ErrorCode = "ValidationError"
	// NetworkError is a transport failure while talking to a collaborator.
	NetworkError ErrorCode = "NetworkError"
	// ContractRejection is returned when the ledger refuses a simulated write.
	ContractRejection ErrorCode = "ContractRejection"
	// UploadRejected is returned when the batch service answered but refused the job document.
	UploadRejected ErrorCode = "UploadRejected"
	// StreamCancelled is the expected terminal state of a stream closed by its consumer.
	StreamCancelled ErrorCode = "StreamCancelled"
	// StreamFailed is the terminal state of a stream whose source failed.
	StreamFailed ErrorCode = "StreamFailed"
)

// Sentinels usable as errors.Is targets.
var (
	ErrConfiguration     = New("configuration error").WithCode(ConfigurationError)
	ErrValidation        = New("validation error").WithCode(ValidationError)
	ErrNetwork           = New("network error").WithCode(NetworkError)
	ErrContractRejection = New("contract rejected the call").WithCode(ContractRejection)
	ErrUploadRejected    = New("upload rejected").WithCode(UploadRejected)
	ErrStreamCancelled   = New("stream cancelled").WithCode(StreamCancelled)
	ErrStreamFailed      = New("stream failed").WithCode(StreamFailed)
)

// NewReadOnlyError is returned by operations that need a signer on a client built without one.
func NewReadOnlyError(operation string) *Error {
	return New("client has been instanced without a signer and is unable to execute %s", operation).
		WithCode(ConfigurationError).
		WithHint("provide a private key or a signer when creating the client")
}
