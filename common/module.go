package common

type Module string

const (
	ModuleTransformer Module = "transformer"
)

func (m Module) String() string {
	return string(m)
}
