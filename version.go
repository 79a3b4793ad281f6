package skc

// VERSION is set at build time via -ldflags "-X github.com/sk-claudecode/skc.VERSION=v1.2.3".
var VERSION = "n/a"
