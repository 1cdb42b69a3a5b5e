package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kjk/bookshelf/backup"
	"github.com/kjk/bookshelf/catalog"
	"github.com/kjk/bookshelf/cli"
	"github.com/kjk/bookshelf/log"
)

type options struct {
	dataPath     string
	exportPath   string
	logDir       string
	backupConfig string
	verbose      bool
	backup       bool
	restore      bool
}

func parseFlags(args []string, errOut io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("bookshelf", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&o.dataPath, "data", catalog.DefaultPath, "path of the catalog file")
	fs.StringVar(&o.exportPath, "export", catalog.DefaultReportPath, "path of the exported report (.zst, .br, .gz to compress)")
	fs.StringVar(&o.logDir, "log-dir", "", "if given, write logs and events to this directory")
	fs.StringVar(&o.backupConfig, "backup-config", ".env", "path of .env file with BACKUP_* credentials")
	fs.BoolVar(&o.verbose, "verbose", false, "log more")
	fs.BoolVar(&o.backup, "backup", false, "upload catalog to backup bucket and exit")
	fs.BoolVar(&o.restore, "restore", false, "replace catalog with the copy from backup bucket and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.backup && o.restore {
		return nil, errors.New("-backup and -restore are mutually exclusive")
	}
	if o.dataPath == "" {
		return nil, errors.New("-data can't be empty")
	}
	return o, nil
}

func runBackup(o *options) error {
	config, err := backup.ReadConfig(o.backupConfig)
	if err != nil {
		return err
	}
	c, err := backup.New(config)
	if err != nil {
		return err
	}
	if o.backup {
		remotePath, err := c.Upload(o.dataPath)
		if err != nil {
			return err
		}
		log.Event("library-backed-up", "path", o.dataPath, "remote", remotePath)
		fmt.Printf("Uploaded '%s' as '%s' to bucket '%s'\n", o.dataPath, remotePath, c.Bucket)
		return nil
	}
	n, err := c.Restore(o.dataPath)
	if err != nil {
		return err
	}
	log.Event("library-restored", "path", o.dataPath, "books", n)
	fmt.Printf("Restored %d books to '%s'\n", n, o.dataPath)
	return nil
}

func run(o *options) error {
	if o.backup || o.restore {
		return runBackup(o)
	}
	lib, err := catalog.Open(o.dataPath)
	if err != nil {
		return err
	}
	log.Verbosef("loaded %d books from '%s'\n", lib.Len(), lib.Path)
	s := cli.NewSession(lib, o.exportPath, os.Stdin, os.Stdout)
	return s.Run()
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(2)
	}

	log.Verbose = o.verbose
	config := &log.Config{
		Dir: o.logDir,
	}
	if o.verbose {
		config.Console = os.Stderr
	}
	log.Init(config)

	err = run(o)
	if err != nil {
		log.Errorf("bookshelf: %s", err)
		log.Close()
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	log.Close()
}
