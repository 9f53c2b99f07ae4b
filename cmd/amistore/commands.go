package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/amistore/encoding"
	"github.com/arloliu/amistore/format"
	"github.com/arloliu/amistore/internal/logging"
	"github.com/urfave/cli/v2"
)

var errUsage = errors.New("usage error")

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", errUsage, c.Command.Name, n, c.NArg())
	}

	return nil
}

func listSymbolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-symbols",
		Usage: "Print the symbols of the master index",
		Action: func(c *cli.Context) error {
			st, err := openStore(c)
			if err != nil {
				return err
			}

			for _, s := range st.Symbols() {
				fmt.Fprintln(c.App.Writer, s)
			}

			return nil
		},
	}
}

func addSymbolCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-symbol",
		Usage:     "Register symbols in the master index",
		ArgsUsage: "SYMBOL...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("%w: add-symbol expects at least one symbol", errUsage)
			}

			st, err := openStore(c)
			if err != nil {
				return err
			}

			for _, s := range c.Args().Slice() {
				id, err := st.AddSymbol(s)
				if err != nil {
					return err
				}
				if id != s {
					fmt.Fprintf(c.App.Writer, "%s stored as %s\n", s, id)
				}
			}

			return st.Persist()
		},
	}
}

func lastDateCommand() *cli.Command {
	return &cli.Command{
		Name:      "last-date",
		Usage:     "Print the timestamp of the last record of a symbol",
		ArgsUsage: "SYMBOL",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}

			st, err := openStore(c)
			if err != nil {
				return err
			}

			ts, ok, err := st.LastTimestamp(c.Args().First())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(c.App.Writer, "no data")
				return nil
			}

			fmt.Fprintln(c.App.Writer, ts.String())

			return nil
		},
	}
}

func listQuotesCommand() *cli.Command {
	return &cli.Command{
		Name:      "list-quotes",
		Usage:     "Print the records of a symbol as CSV",
		ArgsUsage: "SYMBOL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Usage: "First date to print (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "end", Usage: "Last date to print (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}

			window, err := parseWindow(c.String("start"), c.String("end"))
			if err != nil {
				return err
			}

			st, err := openStore(c)
			if err != nil {
				return err
			}

			recs, err := st.ReadFull(c.Args().First(), false)
			if err != nil {
				return err
			}

			return writeQuotes(c.App.Writer, recs, window)
		},
	}
}

func addQuotesCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-quotes",
		Usage:     "Append CSV quotes (date,open,high,low,close,volume) to a symbol",
		ArgsUsage: "SYMBOL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Value: "-", Usage: "CSV file, - for stdin", TakesFile: true},
			&cli.BoolFlag{Name: "all", Usage: "Append every row, including rows not newer than the last stored record"},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			symbol := c.Args().First()

			var in io.Reader = os.Stdin
			if name := c.String("file"); name != "-" {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			recs, err := readQuotes(in)
			if err != nil {
				return err
			}

			st, err := openStore(c)
			if err != nil {
				return err
			}

			if !c.Bool("all") {
				last, ok, err := st.LastTimestamp(symbol)
				if err != nil {
					return err
				}
				if ok {
					recs = newerThan(recs, last)
				}
			}

			if len(recs) == 0 {
				fmt.Fprintln(c.App.Writer, "nothing to add")
				return nil
			}

			if err := st.AppendRecords(map[string][]encoding.PriceRecord{symbol: recs}); err != nil {
				return err
			}
			if err := st.Persist(); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "added %d record(s) to %s\n", len(recs), symbol)

			return nil
		},
	}
}

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Write a compressed snapshot of the store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "Snapshot file", TakesFile: true},
			&cli.StringFlag{Name: "compression", Usage: "none, zstd, s2 or lz4 (default from config)"},
		},
		Action: func(c *cli.Context) error {
			compression := configFrom(c).Compression()
			if c.IsSet("compression") {
				ct, ok := format.ParseCompressionType(c.String("compression"))
				if !ok {
					return fmt.Errorf("%w: unknown compression %q", errUsage, c.String("compression"))
				}
				compression = ct
			}

			st, err := openStore(c)
			if err != nil {
				return err
			}

			out, err := os.Create(c.String("output"))
			if err != nil {
				return err
			}

			info, err := st.Backup(out, compression)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(c.String("output"))
				return err
			}

			fmt.Fprintf(c.App.Writer, "%d file(s), %d bytes -> %d bytes (%s)\n",
				info.Files, info.Size, info.CompressedSize, info.Compression)

			return nil
		},
	}
}

func restoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Restore a snapshot into the store directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "Snapshot file", TakesFile: true},
		},
		Action: func(c *cli.Context) error {
			in, err := os.Open(c.String("input"))
			if err != nil {
				return err
			}
			defer in.Close()

			st, err := openStore(c)
			if err != nil {
				return err
			}

			info, err := st.Restore(in)
			if err != nil {
				return err
			}

			logging.Component("cli").Debug("restore done", "root", st.Root())
			fmt.Fprintf(c.App.Writer, "restored %d file(s)\n", info.Files)

			return nil
		},
	}
}
