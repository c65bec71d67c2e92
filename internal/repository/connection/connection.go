package connection

import "errors"

var (
	ErrNotFound      = errors.New("connection not found")
	ErrAlreadyExists = errors.New("connection already exists")
)

// Conn is a live client connection. Send must not block.
type Conn interface {
	Send(data []byte) error
	Close() error
}
