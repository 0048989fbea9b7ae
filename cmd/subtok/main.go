package main

import (
	"context"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	defer klog.Flush()
	cobra.CheckErr(NewCLI().ExecuteContext(context.Background()))
}
