// Package main provides the bookshelf provisioning tool. The web application
// only reads users and genres; they are created here.
//
// Usage:
//
//	go run ./cmd/seed genres
//	go run ./cmd/seed user --login admin --password secret --role admin
//	go run ./cmd/seed demo
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/listenupapp/bookshelf/internal/auth"
	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/genre"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/store"
	"github.com/listenupapp/bookshelf/internal/store/sqlite"
)

var (
	dbPath string
	log    *logger.Logger

	rootCmd = &cobra.Command{
		Use:           "seed",
		Short:         "Provision users, genres and demo books for bookshelf",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logger.New(logger.Config{Level: slog.LevelInfo, Writer: os.Stderr})
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "SQLite database path")
	rootCmd.AddCommand(genresCmd(), userCmd(), demoCmd())
}

func defaultDBPath() string {
	if p := os.Getenv("DATABASE_PATH"); p != "" {
		return p
	}
	if dir := os.Getenv("DATA_PATH"); dir != "" {
		return filepath.Join(dir, "bookshelf.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookshelf.db"
	}
	return filepath.Join(home, "Bookshelf", "bookshelf.db")
}

// withStore opens the database, applying migrations, for the duration of fn.
func withStore(fn func(ctx context.Context, s *sqlite.Store) error) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	s, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return fn(context.Background(), s)
}

func genresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres [name...]",
		Short: "Create genres (the default set when no names are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = genre.Defaults
			}
			return withStore(func(ctx context.Context, s *sqlite.Store) error {
				_, err := ensureGenres(ctx, s, names)
				return err
			})
		},
	}
}

// ensureGenres creates the named genres, skipping ones that already exist,
// and returns the IDs of every named genre.
func ensureGenres(ctx context.Context, s store.Store, names []string) ([]int64, error) {
	existing, err := s.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]int64, len(existing))
	for _, g := range existing {
		bySlug[g.Slug] = g.ID
	}

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		slug := genre.Slugify(name)
		if slug == "" {
			return nil, fmt.Errorf("genre name %q has no usable characters", name)
		}
		if id, ok := bySlug[slug]; ok {
			ids = append(ids, id)
			continue
		}

		g := &domain.Genre{Name: genre.DisplayName(name), Slug: slug}
		if err := s.CreateGenre(ctx, g); err != nil {
			return nil, fmt.Errorf("create genre %q: %w", name, err)
		}
		bySlug[slug] = g.ID
		ids = append(ids, g.ID)
		log.Info("Genre created", "id", g.ID, "name", g.Name)
	}
	return ids, nil
}

func userCmd() *cobra.Command {
	var (
		login, password, role       string
		lastName, firstName, middle string
	)

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			return withStore(func(ctx context.Context, s *sqlite.Store) error {
				u := &domain.User{
					Login:        login,
					PasswordHash: hash,
					Role:         r,
					LastName:     lastName,
					FirstName:    firstName,
					MiddleName:   middle,
				}
				if err := s.CreateUser(ctx, u); err != nil {
					if errors.Is(err, store.ErrAlreadyExists) {
						return fmt.Errorf("login %q is taken", login)
					}
					return err
				}
				log.Info("User created", "id", u.ID, "login", u.Login, "role", u.Role.String())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", "user", "admin, moderator or user")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&middle, "middle-name", "", "middle name")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

type demoBook struct {
	title, author, publisher string
	year, pages              int
	description              string
	genres                   []string
}

var demoBooks = []demoBook{
	{"Dubliners", "James Joyce", "Grant Richards", 1914, 152,
		"Fifteen short stories of *middle-class life* in Dublin.", []string{"Fiction"}},
	{"The Waste Land", "T. S. Eliot", "Boni & Liveright", 1922, 64,
		"A long poem in five sections.", []string{"Poetry"}},
	{"Brave New World", "Aldous Huxley", "Chatto & Windus", 1932, 311,
		"A **dystopian** World State.", []string{"Fiction", "Science Fiction"}},
	{"The Hobbit", "J. R. R. Tolkien", "George Allen & Unwin", 1937, 310,
		"There and back again.", []string{"Fantasy", "Children's Literature"}},
	{"The Big Sleep", "Raymond Chandler", "Alfred A. Knopf", 1939, 277,
		"Philip Marlowe's first case.", []string{"Mystery", "Thriller"}},
	{"A Brief History of Time", "Stephen Hawking", "Bantam", 1988, 256,
		"From the Big Bang to black holes.", []string{"Science"}},
	{"The Name of the Rose", "Umberto Eco", "Bompiani", 1980, 512,
		"Murder in a medieval abbey.", []string{"Mystery", "Historical Fiction"}},
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Add sample books so the catalog has more than one page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *sqlite.Store) error {
				for _, b := range demoBooks {
					genreIDs, err := ensureGenres(ctx, s, b.genres)
					if err != nil {
						return err
					}
					book := &domain.Book{
						Title:       b.title,
						Author:      b.author,
						Publisher:   b.publisher,
						Year:        b.year,
						Pages:       b.pages,
						Description: b.description,
					}
					if err := s.CreateBook(ctx, book, genreIDs); err != nil {
						return fmt.Errorf("create %q: %w", b.title, err)
					}
					log.Info("Book created", "id", book.ID, "title", book.Title)
				}
				return nil
			})
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}
