// Command hestring exercises the encrypted string API: it encrypts the
// given string (and optional pattern), runs every operation homomorphically,
// decrypts the outcome and compares it against the standard library result,
// printing one timed row per operation.
//
// The HESTRING_LOG environment variable selects the log verbosity
// (debug, info, warn, error).
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/urfave/cli"
	"golang.org/x/crypto/blake2b"

	"github.com/tuneinsight/hestring"
	"github.com/tuneinsight/hestring/fhe"
	"github.com/tuneinsight/hestring/fhe/clear"
	"github.com/tuneinsight/hestring/fhe/heint"
)

func main() {
	initLogging()

	app := cli.NewApp()
	app.Name = "hestring"
	app.Usage = "run the FHE string API against the standard library"
	app.ArgsUsage = "<string> [pattern]"

	var (
		engineArg string
		blockArg  int
		repeatArg int
		insecure  bool
	)
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "engine, e",
			Usage:       "fhe engine to evaluate with: clear or heint",
			Value:       "clear",
			Destination: &engineArg,
		},
		cli.IntFlag{
			Name:        "block, b",
			Usage:       "padding block size for the input string (0 disables padding)",
			Value:       4,
			Destination: &blockArg,
		},
		cli.IntFlag{
			Name:        "n",
			Usage:       "repetitions per operation for timing statistics",
			Value:       1,
			Destination: &repeatArg,
		},
		cli.BoolFlag{
			Name:        "insecure",
			Usage:       "with -engine heint, use the small insecure test ring",
			Destination: &insecure,
		},
	}

	app.Action = func(c *cli.Context) error {
		if c.NArg() < 1 {
			return errors.New("a clear string argument is required; see help")
		}
		clearString := c.Args().Get(0)
		pattern := ""
		if c.NArg() > 1 {
			pattern = c.Args().Get(1)
		}
		key, err := makeKey(engineArg, insecure)
		if err != nil {
			return err
		}
		return run(key, clearString, pattern, blockArg, repeatArg)
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func initLogging() {
	level := slog.LevelWarn
	switch strings.ToLower(os.Getenv("HESTRING_LOG")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "":
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func makeKey(engine string, insecure bool) (fhe.ClientKey, error) {
	switch engine {
	case "clear":
		key, err := clear.NewClientKey()
		if err != nil {
			return nil, err
		}
		slog.Info("generated clear-engine key (insecure reference evaluation)")
		return key, nil
	case "heint":
		literal := heint.DeepPN15
		if insecure {
			literal = heint.TestPN12
		}
		start := time.Now()
		key, err := heint.NewClientKey(literal)
		if err != nil {
			return nil, err
		}
		skBytes, err := key.SecretKey().MarshalBinary()
		if err != nil {
			return nil, err
		}
		sum := blake2b.Sum256(skBytes)
		slog.Info("generated heint keys",
			"seconds", time.Since(start).Seconds(),
			"fingerprint", hex.EncodeToString(sum[:8]))
		return key, nil
	default:
		return nil, fmt.Errorf("unknown engine %q: want clear or heint", engine)
	}
}

// row is one operation's outcome: the standard library result, the
// decrypted homomorphic result, and the per-run timings.
type row struct {
	name    string
	std     string
	fhe     string
	seconds []float64
}

func (r row) matches() bool { return r.std == r.fhe }

func run(key fhe.ClientKey, clearString, pattern string, block, repeat int) error {
	fhe.SetServerKey(key.ServerKey())
	strKey := hestring.NewClientKey(key, block)
	patKey := hestring.NewClientKey(key, 0)

	ct, err := strKey.Encrypt(clearString)
	if err != nil {
		return err
	}
	slog.Info("encrypted input", "slots", ct.Slots(), "block", block)

	if repeat < 1 {
		repeat = 1
	}
	rows := []row{
		timeOp("len", repeat, strconv.Itoa(len(clearString)), func() string {
			return strconv.Itoa(int(fhe.DecryptUint16(key, ct.Len())))
		}),
		timeOp("is_empty", repeat, strconv.FormatBool(clearString == ""), func() string {
			return strconv.FormatBool(fhe.DecryptBool(key, ct.IsEmpty()))
		}),
		timeOp("to_upper", repeat, strings.ToUpper(clearString), func() string {
			return strKey.Decrypt(ct.ToUpper())
		}),
		timeOp("to_lower", repeat, strings.ToLower(clearString), func() string {
			return strKey.Decrypt(ct.ToLower())
		}),
		timeOp("trim_start", repeat, strings.TrimLeft(clearString, " \t\n\v\r"), func() string {
			return strKey.Decrypt(ct.TrimStart())
		}),
		timeOp("trim_end", repeat, strings.TrimRight(clearString, " \t\n\v\r"), func() string {
			return strKey.Decrypt(ct.TrimEnd())
		}),
		timeOp("trim", repeat, strings.Trim(clearString, " \t\n\v\r"), func() string {
			return strKey.Decrypt(ct.Trim())
		}),
		timeOp("repeat_clear(2)", repeat, strings.Repeat(clearString, 2), func() string {
			return strKey.Decrypt(ct.RepeatClear(2))
		}),
		timeOp("repeat(2)", repeat, strings.Repeat(clearString, 2), func() string {
			n := hestring.MaxedUint8{Val: fhe.EncryptUint8(key, 2), Max: 3}
			return strKey.Decrypt(ct.Repeat(n))
		}),
	}

	if pattern != "" {
		pct, err := patKey.Encrypt(pattern)
		if err != nil {
			return err
		}
		enc := hestring.CipherPattern(pct)
		cl := hestring.ClearPattern(pattern)

		patternRows := []row{
			timeOp("concat", repeat, clearString+pattern, func() string {
				return strKey.Decrypt(ct.Concat(pct))
			}),
			boolOp(key, "eq", repeat, clearString == pattern, func() (fhe.Bool, error) {
				return ct.Eq(enc)
			}),
			boolOp(key, "ne", repeat, clearString != pattern, func() (fhe.Bool, error) {
				return ct.Ne(enc)
			}),
			boolOp(key, "eq_ignore_case", repeat, strings.EqualFold(clearString, pattern), func() (fhe.Bool, error) {
				return ct.EqIgnoreCase(enc)
			}),
			boolOp(key, "contains", repeat, strings.Contains(clearString, pattern), func() (fhe.Bool, error) {
				return ct.Contains(enc)
			}),
			boolOp(key, "contains_clear", repeat, strings.Contains(clearString, pattern), func() (fhe.Bool, error) {
				return ct.Contains(cl)
			}),
			boolOp(key, "starts_with", repeat, strings.HasPrefix(clearString, pattern), func() (fhe.Bool, error) {
				return ct.StartsWith(enc)
			}),
			boolOp(key, "starts_with_clear", repeat, strings.HasPrefix(clearString, pattern), func() (fhe.Bool, error) {
				return ct.StartsWith(cl)
			}),
			boolOp(key, "ends_with", repeat, strings.HasSuffix(clearString, pattern), func() (fhe.Bool, error) {
				return ct.EndsWith(enc)
			}),
			boolOp(key, "ends_with_clear", repeat, strings.HasSuffix(clearString, pattern), func() (fhe.Bool, error) {
				return ct.EndsWith(cl)
			}),
			indexOp(key, "find", repeat, strings.Index(clearString, pattern), func() (fhe.Int16, error) {
				return ct.Find(enc)
			}),
			indexOp(key, "rfind", repeat, strings.LastIndex(clearString, pattern), func() (fhe.Int16, error) {
				return ct.Rfind(enc)
			}),
			timeOp("strip_prefix", repeat, strings.TrimPrefix(clearString, pattern), func() string {
				out, err := ct.StripPrefix(enc)
				if err != nil {
					return "error: " + err.Error()
				}
				return strKey.Decrypt(out)
			}),
			timeOp("strip_suffix", repeat, strings.TrimSuffix(clearString, pattern), func() string {
				out, err := ct.StripSuffix(enc)
				if err != nil {
					return "error: " + err.Error()
				}
				return strKey.Decrypt(out)
			}),
		}
		rows = append(rows, patternRows...)
	}

	w := tabwriter.NewWriter(os.Stdout, 4, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Function\tMatch?\tSeconds\tStd Result\tFHE Result")
	failures := 0
	for _, r := range rows {
		mark := "OK"
		if !r.matches() {
			mark = "FAIL"
			failures++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%q\t%q\n", r.name, mark, formatSeconds(r.seconds), r.std, r.fhe)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("%d operation(s) disagree with the standard library", failures)
	}
	return nil
}

func timeOp(name string, repeat int, std string, op func() string) row {
	r := row{name: name, std: std}
	for i := 0; i < repeat; i++ {
		start := time.Now()
		r.fhe = op()
		r.seconds = append(r.seconds, time.Since(start).Seconds())
	}
	return r
}

func boolOp(key fhe.ClientKey, name string, repeat int, std bool, op func() (fhe.Bool, error)) row {
	return timeOp(name, repeat, strconv.FormatBool(std), func() string {
		res, err := op()
		if err != nil {
			return "error: " + err.Error()
		}
		return strconv.FormatBool(fhe.DecryptBool(key, res))
	})
}

func indexOp(key fhe.ClientKey, name string, repeat int, std int, op func() (fhe.Int16, error)) row {
	return timeOp(name, repeat, strconv.Itoa(std), func() string {
		res, err := op()
		if err != nil {
			return "error: " + err.Error()
		}
		return strconv.Itoa(int(fhe.DecryptInt16(key, res)))
	})
}

func formatSeconds(samples []float64) string {
	if len(samples) == 1 {
		return fmt.Sprintf("%.4f", samples[0])
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return "-"
	}
	sd, err := stats.StandardDeviation(samples)
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%.4f±%.4f", mean, sd)
}
