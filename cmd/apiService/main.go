package main

import (
	"github.com/labstack/gommon/color"
	"github.com/meetscribe/meetscribe/internal/app/api"
)

func main() {
	printBanner()
	api.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
                     __                _ __
   ____ ___  ___  __/ /__________ ____(_) /_  ___
  / __ ` + "`" + `__ \/ _ \/ _ \/ __/ ___/ ___/ __/ / __ \/ _ \
 / / / / / /  __/  __/ /_(__  ) /__/ /  / / /_/ /  __/
/_/ /_/ /_/\___/\___/\__/____/\___/_/  /_/_.___/\___/

   ____ _____  (_)  v: %s
  / __ ` + "`" + `/ __ \/ /
 / /_/ / /_/ / /
 \__,_/ .___/_/
     /_/
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/meetscribe/meetscribe"))
}
