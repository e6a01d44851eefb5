package server

import (
	"bytes"
)

const bodyCloseTag = "</body>"

// reloadScript is injected into HTML responses when live reload is
// enabled. It connects back to the serving origin and reloads the page
// on any message.
const reloadScript = `<script>
(() => {
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const ws = new WebSocket(proto + "//" + location.host + "` + reloadEndpoint + `");
  ws.onmessage = () => location.reload();
})();
</script>`

// injectReloadScript inserts the reload script immediately before the
// first closing body tag. Bodies without one are left untouched; no
// structural repair is attempted.
func injectReloadScript(body []byte) []byte {
	i := bytes.Index(body, []byte(bodyCloseTag))
	if i < 0 {
		return body
	}
	out := make([]byte, 0, len(body)+len(reloadScript))
	out = append(out, body[:i]...)
	out = append(out, reloadScript...)
	out = append(out, body[i:]...)
	return out
}
