package main

// shellScripts hold the integration printed by "smartnav init <shell>".
// Each records a visit when the directory changes and defines j <query>.
var shellScripts = map[string]string{
	"bash": `# smartnav: eval "$(smartnav init bash)"
_smartnav_add() {
  if [ "${_SMARTNAV_LAST:-}" != "$PWD" ]; then
    _SMARTNAV_LAST="$PWD"
    command smartnav add
  fi
}
case ";${PROMPT_COMMAND:-};" in
  *";_smartnav_add;"*) ;;
  *) PROMPT_COMMAND="_smartnav_add${PROMPT_COMMAND:+;$PROMPT_COMMAND}" ;;
esac
j() {
  if [ $# -eq 0 ]; then
    command smartnav jump
    return 1
  fi
  local target
  target="$(command smartnav jump "$1")" || return
  [ -n "$target" ] && cd -- "$target"
}
`,
	"zsh": `# smartnav: eval "$(smartnav init zsh)"
_smartnav_add() {
  command smartnav add
}
typeset -ga chpwd_functions
if (( ! ${chpwd_functions[(I)_smartnav_add]} )); then
  chpwd_functions+=(_smartnav_add)
fi
j() {
  if (( $# == 0 )); then
    command smartnav jump
    return 1
  fi
  local target
  target="$(command smartnav jump "$1")" || return
  [[ -n "$target" ]] && cd -- "$target"
}
`,
	"fish": `# smartnav: smartnav init fish | source
function __smartnav_add --on-variable PWD
    command smartnav add
end
function j
    if test (count $argv) -eq 0
        command smartnav jump
        return 1
    end
    set -l target (command smartnav jump $argv[1])
    or return
    test -n "$target"; and cd $target
end
`,
}
