// Package web serves Battleships as plain HTML forms.
//
// GET / shows the setup form and POST / starts a game. Board size must be
// between 4 and 10 and the ship count between 1 and a quarter of the cells.
// GET /game shows the board and POST /game fires at a one-based row and column.
//
// Games live in the shared service; the browser only holds an HS256-signed
// cookie naming its session ID, so a cookie cannot be pointed at somebody
// else's game without the server's secret.
package web
