package events

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/golang/glog"
)

// glogAdapter routes watermill's logging through glog. Debug and trace
// output only appears at -v=3 and above.
type glogAdapter struct {
	fields watermill.LogFields
}

func newGlogAdapter() watermill.LoggerAdapter {
	return glogAdapter{}
}

func (g glogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	glog.Errorf("%s: %v%s", msg, err, g.format(fields))
}

func (g glogAdapter) Info(msg string, fields watermill.LogFields) {
	glog.V(2).Infof("%s%s", msg, g.format(fields))
}

func (g glogAdapter) Debug(msg string, fields watermill.LogFields) {
	glog.V(3).Infof("%s%s", msg, g.format(fields))
}

func (g glogAdapter) Trace(msg string, fields watermill.LogFields) {
	glog.V(4).Infof("%s%s", msg, g.format(fields))
}

func (g glogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return glogAdapter{fields: g.fields.Add(fields)}
}

func (g glogAdapter) format(extra watermill.LogFields) string {
	all := g.fields.Add(extra)
	if len(all) == 0 {
		return ""
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, all[k])
	}
	return b.String()
}
