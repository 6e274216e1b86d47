package opfsgo_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/hupe1980/opfsgo"
	"github.com/hupe1980/opfsgo/memory"
)

// Example_readWrite demonstrates the basic create, write, read cycle.
func Example_readWrite() {
	ctx := context.Background()
	root := memory.NewDirectory()

	file, err := root.GetFileHandle(ctx, "greeting.txt", opfsgo.GetFileHandleOptions{Create: true})
	if err != nil {
		log.Fatal(err)
	}

	w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
	if err != nil {
		log.Fatal(err)
	}
	if err := w.Write(ctx, []byte("Hello World")); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(ctx); err != nil {
		log.Fatal(err)
	}

	data, err := file.Read(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(data))
	// Output: Hello World
}

// Example_entries demonstrates enumerating a directory.
func Example_entries() {
	ctx := context.Background()
	root := memory.NewDirectory()

	for _, name := range []string{"a.txt", "b.txt"} {
		if _, err := root.GetFileHandle(ctx, name, opfsgo.GetFileHandleOptions{Create: true}); err != nil {
			log.Fatal(err)
		}
	}
	if _, err := root.GetDirectoryHandle(ctx, "sub", opfsgo.GetDirectoryHandleOptions{Create: true}); err != nil {
		log.Fatal(err)
	}

	it, err := root.Entries(ctx)
	if err != nil {
		log.Fatal(err)
	}

	for {
		entry, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("%s (%s)\n", entry.Name, entry.Kind)
	}
	// Output:
	// a.txt (file)
	// b.txt (file)
	// sub (directory)
}

// Example_errorHandling demonstrates the sentinel error taxonomy.
func Example_errorHandling() {
	ctx := context.Background()
	root := memory.NewDirectory()

	_, err := root.GetFileHandle(ctx, "missing.txt", opfsgo.GetFileHandleOptions{})
	fmt.Println(errors.Is(err, opfsgo.ErrNotFound))

	if _, err := root.GetDirectoryHandle(ctx, "dir", opfsgo.GetDirectoryHandleOptions{Create: true}); err != nil {
		log.Fatal(err)
	}

	_, err = root.GetFileHandle(ctx, "dir", opfsgo.GetFileHandleOptions{})
	fmt.Println(errors.Is(err, opfsgo.ErrWrongKind))
	// Output:
	// true
	// true
}
