package genre

// Defaults is the genre list inserted by `seed genres`. The web application
// never edits genres.
var Defaults = []string{
	"Fiction",
	"Science Fiction",
	"Fantasy",
	"Mystery",
	"Thriller",
	"Romance",
	"Horror",
	"Historical Fiction",
	"Poetry",
	"Drama",
	"Biography",
	"History",
	"Science",
	"Philosophy",
	"Self-Help",
	"Children's Literature",
}
