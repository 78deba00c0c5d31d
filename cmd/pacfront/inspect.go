package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/h0rv/pacfront/internal/config"
	"github.com/h0rv/pacfront/internal/domain"
	"github.com/h0rv/pacfront/internal/files"
	"github.com/h0rv/pacfront/internal/pacdb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <package>",
		Short: "Print a package's details",
		Long: `Print a package's details without starting the UI.

The package is either "name", which prefers the installed package and then
the first sync repository carrying it, or "repo/name".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadQuiet(cmd)
			if err != nil {
				return err
			}
			pkg, err := lookupTarget(db, args[0])
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), db, pkg)
			return nil
		},
	}
}

func newFilesCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "files <package>",
		Short: "Print a package's files",
		Long: `Print a package's file list. Directories that only hold the next
entry are omitted. --filter takes a substring or a glob such as "/usr/bin/*".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadQuiet(cmd)
			if err != nil {
				return err
			}
			pkg, err := lookupTarget(db, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for f := range files.Filter(files.Dedupe(pkg.Files), filter) {
				fmt.Fprintln(out, f.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only print matching paths")
	return cmd
}

// loadQuiet loads the database logging warnings to stderr.
func loadQuiet(cmd *cobra.Command) (*pacdb.DB, error) {
	settings, err := config.LoadSettings(cmd.Flags())
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(quietLevel(settings))
	for _, w := range settings.Warnings {
		log.WithError(w).Warn("settings")
	}

	db, err := pacdb.Load(pacdb.Options{
		DBPath:     settings.DBPath,
		PacmanConf: settings.PacmanConf,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("loading package database: %w", err)
	}
	return db, nil
}

// quietLevel keeps the subcommands at warn unless debug logging was asked for.
func quietLevel(settings config.Settings) logrus.Level {
	if settings.Level() >= logrus.DebugLevel {
		return settings.Level()
	}
	return logrus.WarnLevel
}

// lookupTarget resolves "name" or "repo/name" to a package.
func lookupTarget(db *pacdb.DB, target string) (*domain.Package, error) {
	if repo, name, ok := strings.Cut(target, "/"); ok {
		id := domain.PackageID{Repo: repo, Name: name}
		pkg, err := db.Lookup(id)
		if err != nil {
			return nil, withSuggestions(err, db.ResolutionList(id), name)
		}
		return pkg, nil
	}

	if pkg, err := db.Lookup(domain.LocalID(target)); err == nil {
		return pkg, nil
	}
	for _, r := range db.Repos() {
		if pkg, err := db.Lookup(domain.PackageID{Repo: r.Name, Name: target}); err == nil {
			return pkg, nil
		}
	}
	all := append(append([]*domain.Package(nil), db.Local()...), db.SyncPackages()...)
	return nil, withSuggestions(fmt.Errorf("%w: %s", pacdb.ErrPackageNotFound, target), all, target)
}

func withSuggestions(err error, list []*domain.Package, name string) error {
	names := pacdb.Suggest(list, name, 3)
	if len(names) == 0 {
		return err
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(names, ", "))
}

func printInfo(w io.Writer, db *pacdb.DB, pkg *domain.Package) {
	kv := func(k, v string) {
		if v != "" {
			fmt.Fprintf(w, "%-16s: %s\n", k, v)
		}
	}
	list := func(k string, v []string) {
		if len(v) == 0 {
			kv(k, "None")
			return
		}
		kv(k, strings.Join(v, "  "))
	}
	deps := func(k string, v []domain.Depend) {
		s := make([]string, len(v))
		for i, d := range v {
			s[i] = d.String()
		}
		list(k, s)
	}
	date := func(k string, unix int64) {
		if unix != 0 {
			t := time.Unix(unix, 0)
			kv(k, fmt.Sprintf("%s (%s)", t.Format(time.RFC1123), humanize.Time(t)))
		}
	}

	kv("Repository", pkg.Repo)
	kv("Name", pkg.Name)
	kv("Version", pkg.Version)
	kv("Description", pkg.Description)
	kv("URL", pkg.URL)
	kv("Architecture", pkg.Arch)
	list("Licenses", pkg.Licenses)
	list("Groups", pkg.Groups)
	deps("Provides", pkg.Provides)
	deps("Depends On", pkg.Depends)

	opt := make([]string, len(pkg.OptDepends))
	for i, d := range pkg.OptDepends {
		opt[i] = d.String()
		if d.Description != "" {
			opt[i] += ": " + d.Description
		}
		if _, ok := pacdb.Resolve(db.Local(), d); ok {
			opt[i] += " [installed]"
		}
	}
	list("Optional Deps", opt)
	list("Required By", pkg.RequiredBy)
	list("Optional For", pkg.OptionalFor)
	deps("Conflicts With", pkg.Conflicts)
	deps("Replaces", pkg.Replaces)
	if pkg.InstalledSize > 0 {
		kv("Installed Size", humanize.IBytes(uint64(pkg.InstalledSize)))
	}
	if pkg.DownloadSize > 0 {
		kv("Download Size", humanize.IBytes(uint64(pkg.DownloadSize)))
	}
	kv("Packager", pkg.Packager)
	date("Build Date", pkg.BuildDate)
	date("Install Date", pkg.InstallDate)
	if pkg.Repo == domain.LocalRepo {
		kv("Install Reason", pkg.Reason.String())
	}
	if n := len(pkg.Files); n > 0 {
		kv("Files", humanize.Comma(int64(n)))
	}
}
