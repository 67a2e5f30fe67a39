package server

import (
	"fmt"
	"strings"

	"github.com/shinyvision/phpscan/internal/php"
)

func switchHover(sw php.SwitchReport) string {
	lines := make([]string, 0, len(sw.Cases))
	for _, c := range sw.Cases {
		lines = append(lines, fmt.Sprintf("- line %d", c.Line))
	}
	return fmt.Sprintf("**switch** with %d case labels\n\n%s", len(sw.Cases), strings.Join(lines, "\n"))
}

func constructorHover(class php.ClassReport) string {
	ctor := class.Constructor
	var b strings.Builder
	fmt.Fprintf(&b, "**%s::__construct**\n\n", class.Name)
	fmt.Fprintf(&b, "Parameters: %s", codeList(ctor.Parameters))

	if len(ctor.Promotable) > 0 {
		names := make([]string, 0, len(ctor.Promotable))
		for _, p := range ctor.Promotable {
			names = append(names, p.Name)
		}
		fmt.Fprintf(&b, "\n\nPromotable: %s", codeList(names))
	}
	for _, a := range ctor.Assignments {
		fmt.Fprintf(&b, "\n\n`$this->%s = %s` can be promoted", a.Property, a.Parameter)
	}
	return b.String()
}

func providerHover(p *php.DataProviderReport) string {
	return fmt.Sprintf("**data provider** `%s` used by %d test(s)", p.Name, len(p.Usages))
}

func codeList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return "`" + strings.Join(items, "`, `") + "`"
}
