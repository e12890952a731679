// Command main fills the database with random users, posts, comments and likes.
package main

import (
	"context"
	"flag"
	"log"

	"instaclone/internal/config"
	"instaclone/internal/database"
	"instaclone/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", false, "Delete existing users, posts, comments and likes first")
	fast := flag.Bool("fast", true, "Hash the shared password once at minimum bcrypt cost")
	demo := flag.Bool("demo", false, "Load the fixed demo dataset instead of random data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	if *demo {
		if err := seed.Demo(ctx, db, cfg.UploadDir); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		return
	}

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)
	res, err := seed.Seed(ctx, db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *fast,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users, %d posts, %d comments, %d likes (password %q)",
		res.Users, res.Posts, res.Comments, res.Likes, seed.FactoryPassword)
}
