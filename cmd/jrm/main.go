/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Command jrm decodes and interprets a single .class file, per
// spec.md §6's external CLI contract: one positional file argument,
// or stdin when absent.
package main

import (
	"fmt"
	"io"
	"os"

	"jrm/classloader"
	"jrm/globals"
	"jrm/object"
	"jrm/shutdown"
	"jrm/stringpool"
	"jrm/thread"
	"jrm/trace"
)

func main() {
	shutdown.Exit(run(os.Args[1:], os.Stdin, os.Stderr))
}

func run(args []string, stdin io.Reader, stderr io.Writer) int {
	raw, err := readClassBytes(args, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return shutdown.JVM_EXCEPTION
	}

	parsed, err := classloader.DecodeClassFile(raw)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return shutdown.JVM_EXCEPTION
	}

	cls, err := classloader.BuildClass(parsed)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return shutdown.JVM_EXCEPTION
	}

	globals.InitGlobals()
	heap := object.NewHeap()
	strings := stringpool.NewPool(heap)
	classes := classloader.NewMethodArea()
	classes.Install(cls)

	mainMethod, ok := cls.GetMethod("main", "([Ljava/lang/String;)V")
	if !ok {
		fmt.Fprintf(stderr, "class %s has no main([Ljava/lang/String;)V method\n", cls.Name)
		return shutdown.APP_EXCEPTION
	}
	if mainMethod.Code == nil {
		fmt.Fprintf(stderr, "class %s main method has no executable code\n", cls.Name)
		return shutdown.APP_EXCEPTION
	}

	th := thread.NewThread(classes, heap, strings)
	mainFrame, err := thread.NewMethodFrame(cls, mainMethod)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return shutdown.JVM_EXCEPTION
	}
	th.PushFrame(mainFrame)

	if err := th.Run(); err != nil {
		fmt.Fprintln(stderr, err)
		return shutdown.JVM_EXCEPTION
	}

	trace.Trace("execution of " + cls.Name + " completed")
	return shutdown.OK
}

func readClassBytes(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}
