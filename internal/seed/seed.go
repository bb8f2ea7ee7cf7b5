package seed

import (
	"fmt"
	"log"
	"math/rand"

	"kidtube/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumVideos   int
	ShouldClean bool
	SkipBcrypt  bool
	MaxDays     int
}

var (
	kidNicknames = []string{
		"StarGazer", "RocketRider", "PandaPal", "SunnyBee", "TigerCub",
		"MoonBeam", "DinoExplorer", "RainbowDash", "PuzzleWhiz", "JellyBean",
		"CaptainCurious", "LittleArtist", "SpaceCadet", "BubbleMaker", "PiratePete",
	}

	learningTopics = []string{
		"Counting to 100", "The Water Cycle", "Dinosaur Facts", "Learning the ABCs",
		"Planets of the Solar System", "How Plants Grow", "Simple Addition",
		"Colors and Shapes", "Animal Habitats", "Days of the Week",
	}

	entertainmentTopics = []string{
		"Silly Puppet Show", "Dance Party Singalong", "Magic Tricks for Kids",
		"Cartoon Adventure", "Funny Animal Compilation", "Treasure Hunt Story",
		"Balloon Art Fun", "Superhero Training Camp", "Under the Sea Singalong",
	}

	commentPhrases = []string{
		"This is my favorite video!", "So cool!", "I learned a lot, thank you!",
		"Can you make more like this?", "My little brother loves this one.",
		"I watched this three times!", "The song is stuck in my head!",
		"Best video ever!", "I showed this to my whole class.",
	}
)

func kidNickname(r *rand.Rand) string {
	return fmt.Sprintf("%s%d", kidNicknames[r.Intn(len(kidNicknames))], r.Intn(100))
}

func videoTitle(r *rand.Rand, t models.VideoType) string {
	if t == models.VideoTypeLearning {
		return learningTopics[r.Intn(len(learningTopics))]
	}
	return entertainmentTopics[r.Intn(len(entertainmentTopics))]
}

func kidComment(r *rand.Rand) string {
	return commentPhrases[r.Intn(len(commentPhrases))]
}

// Seed populates the database with demo users, videos, comments,
// likes, and watch history. Counters are kept consistent with the
// rows that back them.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d videos...", opts.NumUsers, opts.NumVideos)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	videos := make([]*models.Video, 0, opts.NumVideos)
	for i := 0; i < opts.NumVideos; i++ {
		videoType := models.VideoTypeLearning
		if i%2 == 1 {
			videoType = models.VideoTypeEntertainment
		}
		video, err := f.CreateVideo(videoType)
		if err != nil {
			return fmt.Errorf("failed to create video: %w", err)
		}
		videos = append(videos, video)
	}
	log.Printf("Created %d videos", len(videos))

	if len(users) == 0 || len(videos) == 0 {
		return nil
	}

	comments := 0
	for _, video := range videos {
		n := f.rng.Intn(4)
		for i := 0; i < n; i++ {
			user := users[f.rng.Intn(len(users))]
			if _, err := f.CreateComment(user, video); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("Created %d comments", comments)

	likes := 0
	for _, user := range users {
		for _, video := range videos {
			if f.rng.Intn(3) == 0 {
				if err := f.CreateLike(user, video); err != nil {
					return fmt.Errorf("failed to create like: %w", err)
				}
				likes++
			}
		}
	}
	log.Printf("Created %d likes", likes)

	watches := 0
	for _, user := range users {
		for _, video := range videos {
			if f.rng.Intn(2) == 0 {
				if _, err := f.CreateWatch(user, video); err != nil {
					return fmt.Errorf("failed to create watch history: %w", err)
				}
				watches++
			}
		}
	}
	log.Printf("Created %d watch-history entries", watches)

	log.Println("Seeding complete")
	return nil
}

// clearData deletes seeded rows in dependency order.
func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.WatchHistory{},
		&models.LikedVideo{},
		&models.Comment{},
		&models.Video{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
