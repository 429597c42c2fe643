// 命令行入口：
// - folio serve [--watch]：启动站点服务（可选监听内容目录并重建快照）
// - folio index / export：生成快照并导出 data.json
// - folio list / show / audit / feed：本地调试与离线生成
package main

import "go-folio/internal/cli"

func main() {
	cli.Execute()
}
