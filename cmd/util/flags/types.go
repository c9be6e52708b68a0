package flags

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/gridlab/gridclient/cmd/util/output"
	"github.com/gridlab/gridclient/pkg/logger"
	"github.com/gridlab/gridclient/pkg/models"
)

// A Parser is a function that can convert a string into a native object.
type Parser[T any] func(string) (T, error)

// A Stringer is a function that can convert a native object into a string.
type Stringer[T any] func(*T) string

// A ValueFlag is a pflag.Value that knows how to take a command line value
// represented as a string and set it as a native object into a struct.
type ValueFlag[T any] struct {
	// A pointer to a variable that will be set by this flag.
	value *T

	// A Parser to turn the command line string into a native value.
	parser Parser[T]

	// A Stringer to turn the default value for the flag back into a native
	// string, to be printed as help.
	stringer Stringer[T]

	// How the value should be described in the help string. (e.g. string, int)
	typeStr string
}

// Set implements pflag.Value
func (s *ValueFlag[T]) Set(input string) error {
	value, err := s.parser(input)
	if err != nil {
		return err
	}
	*s.value = value
	return nil
}

// String implements pflag.Value
func (s *ValueFlag[T]) String() string {
	return s.stringer(s.value)
}

// Type implements pflag.Value
func (s *ValueFlag[T]) Type() string {
	return s.typeStr
}

var _ pflag.Value = (*ValueFlag[int])(nil)

// An ArrayValueFlag is like a ValueFlag except it will add the command line
// value into a slice of values, and hence can be used for flags that are meant
// to appear multiple times.
type ArrayValueFlag[T any] struct {
	value    *[]T
	parser   Parser[T]
	stringer Stringer[T]
	typeStr  string
}

// Set implements pflag.Value
func (s *ArrayValueFlag[T]) Set(input string) error {
	value, err := s.parser(input)
	if err != nil {
		return err
	}
	*s.value = append(*s.value, value)
	return nil
}

// String implements pflag.Value
func (s *ArrayValueFlag[T]) String() string {
	strs := make([]string, 0, len(*s.value))
	for _, v := range *s.value {
		v := v
		strs = append(strs, s.stringer(&v))
	}
	return strings.Join(strs, ", ")
}

// Type implements pflag.Value
func (s *ArrayValueFlag[T]) Type() string {
	return s.typeStr
}

// Converts a value flag into a flag that can accept multiple of the same value.
func ArrayValueFlagFrom[T any](singleFlag func(*T) *ValueFlag[T]) func(*[]T) *ArrayValueFlag[T] {
	flag := singleFlag(nil)
	return func(value *[]T) *ArrayValueFlag[T] {
		return &ArrayValueFlag[T]{
			value:    value,
			parser:   flag.parser,
			stringer: flag.stringer,
			typeStr:  flag.typeStr,
		}
	}
}

var _ pflag.Value = (*ArrayValueFlag[int])(nil)

func SeparatorParser(sep string) func(string) (string, string, error) {
	return func(input string) (string, string, error) {
		key, value, ok := strings.Cut(input, sep)
		if !ok || key == "" {
			return "", "", fmt.Errorf("%q should be of the form key%svalue", input, sep)
		}
		return key, value, nil
	}
}

// ParseAddress accepts a hex address with or without the 0x prefix.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%q is not a valid address", s)
	}
	return common.HexToAddress(s), nil
}

// ParseAmount parses a non-negative integer amount of credits.
func ParseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("%q is not a valid amount", s)
	}
	return amount, nil
}

func parseLabel(s string) (models.Label, error) {
	key, value, err := SeparatorParser("=")(s)
	return models.Label{Key: key, Value: value}, err
}

func OutputFormatFlag(value *output.OutputFormat) *ValueFlag[output.OutputFormat] {
	return &ValueFlag[output.OutputFormat]{
		value: value,
		parser: func(s string) (output.OutputFormat, error) {
			o := output.OutputFormat(s)
			if !lo.Contains(output.AllFormats, o) {
				return "", fmt.Errorf("should be one of %q", output.AllFormats)
			}
			return o, nil
		},
		stringer: func(o *output.OutputFormat) string { return string(*o) },
		typeStr:  "format",
	}
}

func LoggingFlag(value *logger.LogMode) *ValueFlag[logger.LogMode] {
	return &ValueFlag[logger.LogMode]{
		value:    value,
		parser:   logger.ParseLogMode,
		stringer: func(m *logger.LogMode) string { return string(*m) },
		typeStr:  "log-mode",
	}
}

func AddressFlag(value *common.Address) *ValueFlag[common.Address] {
	return &ValueFlag[common.Address]{
		value:  value,
		parser: ParseAddress,
		stringer: func(a *common.Address) string {
			if a == nil || *a == (common.Address{}) {
				return ""
			}
			return a.Hex()
		},
		typeStr: "address",
	}
}

func AmountFlag(value **big.Int) *ValueFlag[*big.Int] {
	return &ValueFlag[*big.Int]{
		value:  value,
		parser: ParseAmount,
		stringer: func(v **big.Int) string {
			if v == nil || *v == nil {
				return ""
			}
			return (*v).String()
		},
		typeStr: "credits",
	}
}

func LabelFlag(value *models.Label) *ValueFlag[models.Label] {
	return &ValueFlag[models.Label]{
		value:    value,
		parser:   parseLabel,
		stringer: func(l *models.Label) string { return l.Key + "=" + l.Value },
		typeStr:  "key=value",
	}
}

var LabelsFlag = ArrayValueFlagFrom(LabelFlag)
