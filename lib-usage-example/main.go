package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/mvaldr/kattscope/pkg/kattis"
)

func main() {
	// Usage: go run main.go -username "you@example.com" -password "secret"

	userFlag := flag.String("username", "", "Kattis username/email")
	passFlag := flag.String("password", "", "Kattis password")
	instanceFlag := flag.String("instance", "https://open.kattis.com", "Instance base URL")

	// Parse the command-line flags
	flag.Parse()

	if *userFlag == "" || *passFlag == "" {
		fmt.Println("Username and password are required (-username / -password flags).")
		return
	}

	ctx := context.Background()
	client, err := kattis.Connect(ctx, *instanceFlag, *userFlag, *passFlag)
	if err != nil {
		log.Fatal(err)
	}

	// All views follow the same shape: build a spec, run it, walk the rows.
	spec, err := kattis.NewSpec(kattis.ViewProblems, kattis.Options{ShowSolved: true})
	if err != nil {
		log.Fatal(err)
	}
	solved, err := client.Problems(ctx, spec)
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range solved.All() {
		fmt.Println(p.ID, p.Name)
	}
}
