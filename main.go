// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/GZGavinZhao/srcget/cmd"
)

func main() {
	cmd.Execute()
}
