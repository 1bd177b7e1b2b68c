package node

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	KindNil KindEnum = iota
	KindBool
	KindInteger
	KindDecimal
	KindString
	KindList
	KindMap
	KindComposite

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)
