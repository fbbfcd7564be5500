package services

import "github.com/desertthunder/audiolib/internal/models"

// SampleTracks returns the demonstration catalog.
func SampleTracks() []models.Track {
	return []models.Track{
		{Title: "Bohemian Rhapsody", Artist: "Queen", Duration: 354, Album: "A Night at the Opera", Genre: "Rock", Year: 1975, Rating: 5, PlayCount: 150},
		{Title: "Imagine", Artist: "John Lennon", Duration: 183, Album: "Imagine", Genre: "Rock", Year: 1971, Rating: 5, PlayCount: 120},
		{Title: "Hotel California", Artist: "Eagles", Duration: 391, Album: "Hotel California", Genre: "Rock", Year: 1976, Rating: 4.5, PlayCount: 98},
		{Title: "Stairway to Heaven", Artist: "Led Zeppelin", Duration: 482, Album: "Led Zeppelin IV", Genre: "Rock", Year: 1971, Rating: 5, PlayCount: 142},
		{Title: "Billie Jean", Artist: "Michael Jackson", Duration: 294, Album: "Thriller", Genre: "Pop", Year: 1982, Rating: 4.5, PlayCount: 89},
		{Title: "Like a Rolling Stone", Artist: "Bob Dylan", Duration: 369, Album: "Highway 61 Revisited", Genre: "Rock", Year: 1965, Rating: 4, PlayCount: 76},
		{Title: "Smells Like Teen Spirit", Artist: "Nirvana", Duration: 301, Album: "Nevermind", Genre: "Grunge", Year: 1991, Rating: 4.5, PlayCount: 110},
		{Title: "Hey Jude", Artist: "The Beatles", Duration: 431, Album: "Hey Jude", Genre: "Rock", Year: 1968, Rating: 5, PlayCount: 134},
		{Title: "One", Artist: "U2", Duration: 276, Album: "Achtung Baby", Genre: "Rock", Year: 1991, Rating: 4, PlayCount: 65},
		{Title: "Sweet Child O' Mine", Artist: "Guns N' Roses", Duration: 356, Album: "Appetite for Destruction", Genre: "Rock", Year: 1987, Rating: 4.5, PlayCount: 92},
	}
}
