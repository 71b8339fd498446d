package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/kingdom-api/internal/entities"
)

const (
	kingdomPrefix  = "kingdom:"
	usernamePrefix = "kingdom:username:"
	indexKey       = "kingdom:index"
)

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning kingdom records...")

	indexed, err := client.SMembers(ctx, indexKey).Result()
	if err != nil {
		log.Fatal("Failed to read kingdom index:", err)
	}
	inIndex := make(map[string]bool, len(indexed))
	for _, id := range indexed {
		inIndex[id] = true
	}

	iter := client.Scan(ctx, 0, kingdomPrefix+"*", 0).Iterator()

	var corruptedKeys []string
	var unindexed []string
	var checkedCount, inconsistent int
	seen := make(map[string]bool)

	for iter.Next(ctx) {
		key := iter.Val()
		if key == indexKey || strings.HasPrefix(key, usernamePrefix) {
			continue
		}
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var k entities.Kingdom
		if err := json.Unmarshal([]byte(data), &k); err != nil {
			fmt.Printf("✗ Corrupted JSON in %s\n", key)
			corruptedKeys = append(corruptedKeys, key)
			continue
		}

		id := strings.TrimPrefix(key, kingdomPrefix)
		seen[id] = true
		if !inIndex[id] {
			fmt.Printf("✗ %s is missing from %s\n", key, indexKey)
			unindexed = append(unindexed, id)
		}

		// Integrity problems are reported but never auto-fixed
		for _, p := range k.Problems() {
			fmt.Printf("! %s: %s\n", key, p)
			inconsistent++
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	var stale []string
	for _, id := range indexed {
		if !seen[id] {
			stale = append(stale, id)
		}
	}

	fmt.Printf("\nChecked %d kingdoms: %d corrupted, %d unindexed, %d stale index entries, %d integrity problems\n",
		checkedCount, len(corruptedKeys), len(unindexed), len(stale), inconsistent)

	if len(corruptedKeys) == 0 && len(unindexed) == 0 && len(stale) == 0 {
		fmt.Println("Nothing to repair!")
		return
	}

	fmt.Print("\nDelete corrupted records and rebuild the index? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, key := range corruptedKeys {
		id := strings.TrimPrefix(key, kingdomPrefix)
		pipe := client.TxPipeline()
		pipe.Del(ctx, key)
		pipe.SRem(ctx, indexKey, id)
		if _, err := pipe.Exec(ctx); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	for _, id := range unindexed {
		if err := client.SAdd(ctx, indexKey, id).Err(); err != nil {
			fmt.Printf("Failed to index %s: %v\n", id, err)
		}
	}
	for _, id := range stale {
		if err := client.SRem(ctx, indexKey, id).Err(); err != nil {
			fmt.Printf("Failed to drop %s from index: %v\n", id, err)
		}
	}
	fmt.Println("\nRepair complete!")
}
