package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/danderson/dbusarg"
	"github.com/danderson/dbusarg/internal/batch"
	"github.com/danderson/dbusarg/internal/dbusgen"
	"github.com/danderson/dbusarg/wire"
	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalArgs struct {
	LogLevel string `flag:"log-level,default=warn,Log level (debug, info, warn, error)"`
	Tree     bool   `flag:"tree,Also print the parsed tree of signatures, values and wire arguments"`
}

var genArgs struct {
	Package string `flag:"package,default=dbusargs,Package name of the generated code"`
}

func main() {
	root := &command.C{
		Name:     "dbusarg",
		Usage:    "command args...",
		Help:     "Parse, check and encode DBus arguments written as text.",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Init:     initLogging,
		Commands: []*command.C{
			{
				Name:  "sig",
				Usage: "sig signature...",
				Help:  "Parse type signatures and print them in canonical form.",
				Run:   runSig,
			},
			{
				Name:  "value",
				Usage: "value literal",
				Help:  "Parse a value literal and print it in canonical form.",
				Run:   command.Adapt(runValue),
			},
			{
				Name:  "infer",
				Usage: "infer literal",
				Help:  "Print the type signature implied by a value literal.",
				Run:   command.Adapt(runInfer),
			},
			{
				Name:  "check",
				Usage: "check signature literal",
				Help: `Validate a value literal against a type signature.

On success, prints the signature of the encoded argument. With --tree,
also prints the wire tree that would be handed to a transport.`,
				Run: command.Adapt(runCheck),
			},
			{
				Name:  "native",
				Usage: "native signature literal",
				Help:  "Encode a value literal, and print it as a plain Go value.",
				Run:   command.Adapt(runNative),
			},
			{
				Name:  "methods",
				Usage: "methods file",
				Help:  "List the interfaces and methods of a TOML description file.",
				Run:   command.Adapt(runMethods),
			},
			{
				Name:  "call-args",
				Usage: "call-args file interface method [literal]",
				Help: `Encode the input arguments of a described method.

A method with several input arguments takes a struct literal with one
field per argument. A method with no input arguments takes no literal.`,
				Run: runCallArgs,
			},
			{
				Name:     "gen",
				Usage:    "gen file",
				Help:     "Generate Go request and response types for the methods of a TOML description file.",
				SetFlags: command.Flags(flax.MustBind, &genArgs),
				Run:      command.Adapt(runGen),
			},
			{
				Name:  "batch",
				Usage: "batch file",
				Help: `Check many arguments at once.

Each line of the file holds a type signature and a value literal,
separated by a tab. Blank lines and lines starting with # are
ignored. Lines are checked in parallel, and reported in order. The
command fails if any line fails.`,
				Run: command.Adapt(runBatch),
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	env := root.NewEnv(nil).SetContext(ctx)
	command.RunOrFail(env, os.Args[1:])
}

func initLogging(env *command.Env) error {
	lvl, err := zerolog.ParseLevel(globalArgs.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "dbusarg").Logger()
	return nil
}

func runSig(env *command.Env) error {
	if len(env.Args) == 0 {
		return env.Usagef("no signatures given")
	}
	var sigs []dbusarg.Signature
	for _, s := range env.Args {
		sig, err := dbusarg.ParseSignature(s)
		if err != nil {
			return err
		}
		log.Debug().Str("input", s).Stringer("sig", sig).Msg("parsed signature")
		sigs = append(sigs, sig)
	}
	for _, sig := range sigs {
		fmt.Printf("%q\n", sig)
		if globalArgs.Tree {
			pretty.Println(sig.Type())
		}
	}
	return nil
}

func runValue(env *command.Env, literal string) error {
	v, err := dbusarg.ParseValue(literal)
	if err != nil {
		return err
	}
	if v == nil {
		fmt.Println("(no value)")
		return nil
	}
	fmt.Println(v)
	if globalArgs.Tree {
		pretty.Println(v)
	}
	return nil
}

func runInfer(env *command.Env, literal string) error {
	v, err := dbusarg.ParseValue(literal)
	if err != nil {
		return err
	}
	sig, err := dbusarg.SignatureOf(v)
	if err != nil {
		return fmt.Errorf("inferring signature of %s: %w", literal, err)
	}
	fmt.Printf("%q\n", sig)
	return nil
}

func runCheck(env *command.Env, sig, literal string) error {
	arg, err := dbusarg.Marshal(sig, literal)
	if err != nil {
		return err
	}
	printArgs([]wire.Arg{arg})
	return nil
}

func runNative(env *command.Env, sig, literal string) error {
	arg, err := dbusarg.Marshal(sig, literal)
	if err != nil {
		return err
	}
	if arg == nil {
		fmt.Println("(no value)")
		return nil
	}
	v, err := wire.Native(arg)
	if err != nil {
		return fmt.Errorf("converting to Go value: %w", err)
	}
	fmt.Printf("%T\n", v)
	pretty.Println(v)
	return nil
}

func runMethods(env *command.Env, file string) error {
	ifaces, err := readInterfaces(file)
	if err != nil {
		return err
	}
	for i, iface := range ifaces {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(iface)
	}
	return nil
}

func runCallArgs(env *command.Env) error {
	if len(env.Args) < 3 || len(env.Args) > 4 {
		return env.Usagef("wrong number of arguments")
	}
	args := growTo(env.Args, 4)
	file, ifaceName, methodName, literal := args[0], args[1], args[2], args[3]

	m, err := findMethod(file, ifaceName, methodName)
	if err != nil {
		return err
	}
	v, err := dbusarg.ParseValue(literal)
	if err != nil {
		return err
	}
	body, err := m.EncodeArgs(v)
	if err != nil {
		return err
	}
	log.Debug().Str("method", m.Name).Int("args", len(body)).Msg("encoded call arguments")
	fmt.Println(m)
	printArgs(body)
	return nil
}

func runGen(env *command.Env, file string) error {
	ifaces, err := readInterfaces(file)
	if err != nil {
		return err
	}
	src, err := dbusgen.Interfaces(genArgs.Package, ifaces)
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}
	fmt.Print(src)
	return nil
}

func runBatch(env *command.Env, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	jobs, err := batch.Read(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	log.Info().Str("file", file).Int("jobs", len(jobs)).Msg("running batch")

	results := batch.Run(log.Logger, jobs)
	for _, r := range results {
		fmt.Println(r)
	}
	if failed := batch.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
	}
	return nil
}

func findMethod(file, ifaceName, methodName string) (*dbusarg.MethodDescription, error) {
	ifaces, err := readInterfaces(file)
	if err != nil {
		return nil, err
	}
	for _, iface := range ifaces {
		if iface.Name != ifaceName {
			continue
		}
		if m := iface.Method(methodName); m != nil {
			return m, nil
		}
		return nil, fmt.Errorf("interface %s has no method %s", ifaceName, methodName)
	}
	return nil, fmt.Errorf("no interface %s in %s", ifaceName, file)
}

func readInterfaces(file string) ([]*dbusarg.InterfaceDescription, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ret, err := dbusarg.ReadInterfaces(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	if len(ret) == 0 {
		return nil, errors.New("no interfaces described in " + file)
	}
	return ret, nil
}
