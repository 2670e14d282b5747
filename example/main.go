package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/theflywheel/ght"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Payloads are indexes into names; the deallocator reports what is freed.
	names := []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	table, err := ght.New(4,
		ght.WithAutoResize(0.75),
		ght.WithLogger(logger),
		ght.WithDeallocator(func(key, value ght.Slot) {
			fmt.Printf("Freed key %d => %s\n", key.Int64(), names[value.Handle()])
		}),
	)
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	defer table.Destroy()

	fmt.Println("Table created successfully")

	for i := 0; i < len(names); i++ {
		if err := table.Insert(ght.Int64(int64(i*100)), ght.Handle(uintptr(i))); err != nil {
			log.Fatalf("Failed to insert key %d: %v", i*100, err)
		}
	}

	fmt.Printf("Inserted %d keys, width %d, load factor %.2f\n",
		table.Load(), table.Width(), table.LoadFactor())

	for i := 0; i < 15; i += 2 {
		value, found := table.Search(ght.Int64(int64(i * 100)))
		if found {
			fmt.Printf("Key %d => %s\n", i*100, names[value.Handle()])
		} else {
			fmt.Printf("Key %d not found\n", i*100)
		}
	}

	// Overwriting frees the old payload first.
	if err := table.Insert(ght.Int64(200), ght.Handle(9)); err != nil {
		log.Fatalf("Failed to update key: %v", err)
	}

	if err := table.Delete(ght.Int64(300)); err != nil {
		log.Fatalf("Failed to delete key: %v", err)
	}

	if err := table.Resize(3); err != nil {
		log.Fatalf("Failed to resize: %v", err)
	}

	fmt.Println("Example completed successfully")
}
