package remkore

import (
	"fmt"
	"strings"
)

// OptionSpec defines one command line option a build script understands. At
// least one of Long and Short must be set. Long names and short names each
// must be unique within a spec table – [Parse] resolves by first match and
// does not check for ambiguity.
type OptionSpec struct {
	Long     string // e.g. "output", matched as --output
	Short    byte   // e.g. 'o', matched as -o, also bundled
	HasValue bool   // option consumes a value, e.g. -o file
	Toggle   bool   // option is a plain switch, e.g. --verbose
}

// ParsedOption is one recognized option occurrence. Long and Short are copied
// from the matching [OptionSpec]. Value is set iff the spec has HasValue and
// aliases the original argv, it is never a copy.
type ParsedOption struct {
	Long  string
	Short byte
	Value string
}

// Args is the result of [Parse]: the recognized options in the order they
// occurred on the command line – repeated options are all retained – and the
// residual arguments from the first non-option token or after an explicit
// "--" separator. Rest aliases the parsed argv.
type Args struct {
	Options []ParsedOption
	Rest    []string
}

// ForLong calls do for every occurrence of the option with the given long
// name, in command line order.
func (a *Args) ForLong(long string, do func(ParsedOption)) {
	for _, o := range a.Options {
		if o.Long == long {
			do(o)
		}
	}
}

type UnknownOptionError struct{ Option string }

func (e UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %s", e.Option)
}

func (UnknownOptionError) Is(target error) bool {
	_, ok := target.(UnknownOptionError)
	return ok
}

type MissingValueError struct{ Option string }

func (e MissingValueError) Error() string {
	return fmt.Sprintf("option %s requires a value, but none was supplied", e.Option)
}

func (MissingValueError) Is(target error) bool {
	_, ok := target.(MissingValueError)
	return ok
}

type ConflictingValuesError struct{ Token string }

func (e ConflictingValuesError) Error() string {
	return fmt.Sprintf("only one option requiring a value is allowed in a group like %s", e.Token)
}

func (ConflictingValuesError) Is(target error) bool {
	_, ok := target.(ConflictingValuesError)
	return ok
}

func findLong(name string, specs []OptionSpec) *OptionSpec {
	for i := range specs {
		if specs[i].Long != "" && specs[i].Long == name {
			return &specs[i]
		}
	}
	return nil
}

func findShort(name byte, specs []OptionSpec) *OptionSpec {
	for i := range specs {
		if specs[i].Short != 0 && specs[i].Short == name {
			return &specs[i]
		}
	}
	return nil
}

// Parse scans argv – including the program name in argv[0] – left to right
// against specs. A token "--" ends option scanning and is skipped, a token
// not starting with '-' ends option scanning and starts the residual tail.
// Short options may be bundled as -xyz where an option requiring a value
// takes the remainder of the token or, when it is the last character, the
// following token. At most one option per bundle may take a value: a
// remainder that itself reads as recognized options with another value
// option among them is rejected, not consumed as the value.
//
// On error parsing aborts immediately: no partial result is returned.
func Parse(argv []string, specs []OptionSpec) (*Args, error) {
	res := new(Args)
	i := 1
scan:
	for ; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--":
			i++
			break scan
		case arg == "" || arg[0] != '-':
			break scan
		case strings.HasPrefix(arg, "--"):
			spec := findLong(arg[2:], specs)
			if spec == nil {
				return nil, UnknownOptionError{Option: arg}
			}
			if !spec.HasValue {
				res.Options = append(res.Options, ParsedOption{Long: spec.Long, Short: spec.Short})
				continue
			}
			if i+1 >= len(argv) {
				return nil, MissingValueError{Option: arg}
			}
			i++
			res.Options = append(res.Options, ParsedOption{
				Long:  spec.Long,
				Short: spec.Short,
				Value: argv[i],
			})
		default:
			took, err := parseBundle(res, argv, i, specs)
			if err != nil {
				return nil, err
			}
			i += took
		}
	}
	res.Rest = argv[i:]
	return res, nil
}

// parseBundle scans one -xyz token. It returns how many extra argv tokens it
// consumed as the value of a trailing value option.
func parseBundle(res *Args, argv []string, i int, specs []OptionSpec) (int, error) {
	arg := argv[i]
	took := 0
	tookValue := false
	for j := 1; j < len(arg); j++ {
		spec := findShort(arg[j], specs)
		if spec == nil {
			return 0, UnknownOptionError{Option: "-" + string(arg[j])}
		}
		if !spec.HasValue {
			res.Options = append(res.Options, ParsedOption{Long: spec.Long, Short: spec.Short})
			continue
		}
		if tookValue {
			return 0, ConflictingValuesError{Token: arg}
		}
		tookValue = true
		if j+1 < len(arg) {
			if bundlesValueOption(arg[j+1:], specs) {
				return 0, ConflictingValuesError{Token: arg}
			}
			// value attached as in -ovalue, rest of token is consumed
			res.Options = append(res.Options, ParsedOption{
				Long:  spec.Long,
				Short: spec.Short,
				Value: arg[j+1:],
			})
			return took, nil
		}
		if i+1+took >= len(argv) {
			return 0, MissingValueError{Option: "-" + string(arg[j])}
		}
		took++
		res.Options = append(res.Options, ParsedOption{
			Long:  spec.Long,
			Short: spec.Short,
			Value: argv[i+took],
		})
	}
	return took, nil
}

// bundlesValueOption reports whether rest reads as a sequence of recognized
// short options among which another one requires a value. Such a rest must
// not be consumed as the attached value of the option before it: -ab with
// two value options is a conflict, while the ut.bin of -voout.bin is an
// ordinary value because 'u' resolves to no option.
func bundlesValueOption(rest string, specs []OptionSpec) bool {
	hasValue := false
	for i := 0; i < len(rest); i++ {
		spec := findShort(rest[i], specs)
		if spec == nil {
			return false
		}
		hasValue = hasValue || spec.HasValue
	}
	return hasValue
}
