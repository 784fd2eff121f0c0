package ncc

import "fmt"

// Config is a small typed map of compiler settings, read once by the
// driver and handed to components as a *Config. The shape (typed
// getters/setters; a getter panics on a type mismatch since a mismatch
// is always a programmer error, never user input) is deliberately
// uniform across every setting.
type Config map[string]*cfgVal

type Mode int

const (
	ModeGenerate Mode = iota
	ModeScan
	ModeParse
)

type ParserOutputMode int

const (
	ParserOutputTree ParserOutputMode = iota
	ParserOutputLinear
)

type ParserMode int

const (
	ParserModeNormal ParserMode = iota
	ParserModeExpression
)

// NewConfig returns a Config primed with every default the driver
// and its components expect to find.
func NewConfig() *Config {
	m := make(Config)
	m.SetInt("mode", int(ModeGenerate))
	m.SetBool("optimize", false)
	m.SetInt("parser.output_mode", int(ParserOutputTree))
	m.SetInt("parser.mode", int(ParserModeNormal))
	m.SetBool("symbols.dump", false)
	return &m
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("can't assign %q to type %q", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("can't retrieve %q from %q setting", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("bool setting %q does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("int setting %q does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("string setting %q does not exist", path))
}

func (c *Config) Mode() Mode                       { return Mode(c.GetInt("mode")) }
func (c *Config) Optimize() bool                    { return c.GetBool("optimize") }
func (c *Config) ParserOutputMode() ParserOutputMode { return ParserOutputMode(c.GetInt("parser.output_mode")) }
func (c *Config) ParserMode() ParserMode            { return ParserMode(c.GetInt("parser.mode")) }
func (c *Config) SymbolsDump() bool                 { return c.GetBool("symbols.dump") }
