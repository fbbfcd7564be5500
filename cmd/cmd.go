// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file and initialize storage",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "reset", Usage: "Drop and recreate the database schema, discarding stored snapshots and export history"},
		},
		Action: r.Setup,
	}
}

// trackFlags are the optional fields shared by add and edit
func trackFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "duration", Aliases: []string{"d"}, Usage: "Length in seconds"},
		&cli.StringFlag{Name: "album", Usage: "Album name"},
		&cli.StringFlag{Name: "genre", Aliases: []string{"g"}, Usage: "Genre"},
		&cli.StringFlag{Name: "year", Aliases: []string{"y"}, Usage: "Release year"},
		&cli.StringFlag{Name: "rating", Usage: "Rating from 0 to 5"},
		&cli.StringFlag{Name: "plays", Usage: "Play count"},
	}
}

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a track to the library",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Track title", Required: true},
			&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Track artist", Required: true},
		}, trackFlags()...),
		Action: r.Add,
	}
}

func editCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Change fields of an existing track",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title of the track to edit", Required: true},
			&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Artist of the track to edit", Required: true},
			&cli.StringFlag{Name: "new-title", Usage: "Replacement title"},
			&cli.StringFlag{Name: "new-artist", Usage: "Replacement artist"},
		}, trackFlags()...),
		Action: r.Edit,
	}
}

func removeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "rm",
		Aliases: []string{"remove"},
		Usage:   "Remove tracks by title and artist, by title, or by artist",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Track title"},
			&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Track artist"},
			&cli.BoolFlag{Name: "all", Usage: "Remove every track"},
		},
		Action: r.Remove,
	}
}

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List library tracks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "sort",
				Aliases: []string{"s"},
				Usage:   "Sort by title, artist, album, year, rating or playcount",
				Value:   "title",
			},
			&cli.IntFlag{Name: "from-year", Usage: "Only tracks released in or after this year"},
			&cli.IntFlag{Name: "to-year", Usage: "Only tracks released in or before this year"},
			&cli.FloatFlag{Name: "min-rating", Usage: "Only tracks rated at least this"},
			&cli.FloatFlag{Name: "max-rating", Usage: "Only tracks rated at most this", Value: 5},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
		},
		Action: r.List,
	}
}

func valuesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "values",
		Usage: "List the distinct artists, albums or genres",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "field"},
		},
		Action: r.Values,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Match mode: substring, exact, prefix, fuzzy or pattern",
				Value:   "substring",
			},
			&cli.StringFlag{
				Name:    "fields",
				Aliases: []string{"f"},
				Usage:   "Comma-separated fields: title, artist, album, genre",
				Value:   "title,artist,album,genre",
			},
			&cli.BoolFlag{Name: "case-sensitive", Aliases: []string{"C"}, Usage: "Match case exactly"},
			&cli.StringFlag{Name: "export", Aliases: []string{"e"}, Usage: "Also export the results in this format"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Export directory (default: library.export_dir)"},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
		},
		Action: r.Search,
	}
}

func suggestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "suggest",
		Usage: "Suggest titles, artists, albums and genres for a partial input",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "prefix"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum number of suggestions", Value: 10},
		},
		Action: r.Suggest,
	}
}

func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import tracks from a .csv or .json file",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Import,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export tracks to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: csv, json, m3u, markdown or txt",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:  "scope",
				Usage: "What to export: library, view or search",
				Value: "library",
			},
			&cli.StringFlag{Name: "sort", Usage: "Sort order for the view scope", Value: "title"},
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Query for the search scope"},
			&cli.StringFlag{Name: "mode", Usage: "Match mode for the search scope", Value: "substring"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory (default: library.export_dir)"},
			&cli.BoolFlag{Name: "stdout", Usage: "Write the export to stdout instead of a file"},
			&cli.BoolFlag{Name: "all", Usage: "Export the library in every format"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent workers for --all", Value: 3},
		},
		Action: r.Export,
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Match an M3U playlist against the library",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
		},
		Action: r.Playlist,
	}
}

func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show library statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
		},
		Action: r.Stats,
	}
}

func sampleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "Load the sample catalog",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "replace", Usage: "Discard the current library first"},
		},
		Action: r.Sample,
	}
}

// exportsCommand lists the export log
func exportsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "exports",
		Usage: "List recent exports recorded in the database",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum number of entries", Value: 20},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Exports,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse the library in an interactive terminal UI",
		Action: r.TUI,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the library over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Listen host (default: server.host)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default: server.port)"},
		},
		Action: r.Serve,
	}
}
