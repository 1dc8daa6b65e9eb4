// Package ws pushes navigation state over WebSocket.
//
// On connect a client receives {"type":"state"} with the current snapshot.
// It then sends intents:
//
//	{"type":"navigate","text":"example.com"}
//	{"type":"input","text":"exa"}
//	{"type":"new_tab"}
//	{"type":"close_tab","id":"tab_..."}
//	{"type":"switch_tab","id":"tab_..."}
//	{"type":"open_history","id":"hist_..."}
//	{"type":"clear_history"}
//	{"type":"ping"}
//
// Every state change, whoever caused it, is broadcast to all clients in the
// order the coordinator applied it. Rejected intents get {"type":"error"}
// on the sending connection only.
package ws
