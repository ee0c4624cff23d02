// 包 version：构建工具的版本标识，入口启动时打点输出
package version

// Version：发布时由构建脚本通过 -ldflags 覆盖
var Version = "dev"
