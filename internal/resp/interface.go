package resp

// Reader yields one decoded value per call
type Reader interface {
	Read() (Value, error)
}
